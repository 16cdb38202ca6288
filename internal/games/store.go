package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/watch"
	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
)

const columns = `id, date_ms, status, opponent, is_away, notes, players_present_json, parents_present_json, quarters_json, ended_at_ms, updated_at_ms`

// New creates a new GameStore.
func New(db *sqlx.DB, clock clockwork.Clock) GameStore {
	return &store{
		db:    db,
		clock: clock,
		hub:   watch.New(),
	}
}

// Create inserts a new game and fails if the id is taken.
func (s *store) Create(ctx context.Context, game *match.Game) error {
	if err := game.CheckQuarters(); err != nil {
		return err
	}
	row, err := toRow(game, s.clock.Now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO games (`+columns+`)
		VALUES (:id, :date_ms, :status, :opponent, :is_away, :notes, :players_present_json, :parents_present_json, :quarters_json, :ended_at_ms, :updated_at_ms)`, row)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("create game %d: %w", game.ID, err)
	}

	s.hub.Notify()
	return nil
}

// Upsert writes the whole game, replacing any stored version.
func (s *store) Upsert(ctx context.Context, game *match.Game) error {
	if err := game.CheckQuarters(); err != nil {
		return err
	}
	row, err := toRow(game, s.clock.Now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO games (`+columns+`)
		VALUES (:id, :date_ms, :status, :opponent, :is_away, :notes, :players_present_json, :parents_present_json, :quarters_json, :ended_at_ms, :updated_at_ms)
		ON CONFLICT(id) DO UPDATE SET
			date_ms = excluded.date_ms,
			status = excluded.status,
			opponent = excluded.opponent,
			is_away = excluded.is_away,
			notes = excluded.notes,
			players_present_json = excluded.players_present_json,
			parents_present_json = excluded.parents_present_json,
			quarters_json = excluded.quarters_json,
			ended_at_ms = excluded.ended_at_ms,
			updated_at_ms = excluded.updated_at_ms`, row)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("upsert game %d: %w", game.ID, err)
	}

	s.hub.Notify()
	return nil
}

// Update writes only the non-nil fields of patch.
func (s *store) Update(ctx context.Context, id int64, patch match.Patch) error {
	sets := []string{"updated_at_ms = ?"}
	args := []any{s.clock.Now().UnixMilli()}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.EndedAt != nil {
		sets = append(sets, "ended_at_ms = ?")
		args = append(args, patch.EndedAt.UnixMilli())
	}
	if patch.Date != nil {
		sets = append(sets, "date_ms = ?")
		args = append(args, patch.Date.UnixMilli())
	}
	if patch.Opponent != nil {
		sets = append(sets, "opponent = ?")
		args = append(args, *patch.Opponent)
	}
	if patch.IsAway != nil {
		sets = append(sets, "is_away = ?")
		args = append(args, *patch.IsAway)
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}
	args = append(args, id)

	s.mu.Lock()
	res, err := s.db.ExecContext(ctx, "UPDATE games SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("update game %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("game %d: %w", id, ErrNotFound)
	}

	s.hub.Notify()
	return nil
}

func (s *store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("game %d: %w", id, ErrNotFound)
	}

	log.Info("Deleted game", "gameID", id)
	s.hub.Notify()
	return nil
}

func (s *store) Get(ctx context.Context, id int64) (*match.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var row gameRow
	err := s.db.GetContext(ctx, &row, "SELECT "+columns+" FROM games WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return fromRow(row)
}

// Query returns the games matching filter ordered by date.
func (s *store) Query(ctx context.Context, filter Filter) ([]match.Game, error) {
	query, args := buildQuery(filter)

	s.mu.RLock()
	var rows []gameRow
	err := s.db.SelectContext(ctx, &rows, query, args...)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	games := make([]match.Game, 0, len(rows))
	for _, row := range rows {
		g, err := fromRow(row)
		if err != nil {
			log.Error("Failed to decode game row", "error", err)
			continue
		}
		games = append(games, *g)
	}
	return games, nil
}

func buildQuery(filter Filter) (string, []any) {
	var b strings.Builder
	var args []any
	b.WriteString("SELECT " + columns + " FROM games")
	if filter.Status != "" {
		b.WriteString(" WHERE status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Newest {
		b.WriteString(" ORDER BY date_ms DESC, id DESC")
	} else {
		b.WriteString(" ORDER BY date_ms ASC, id ASC")
	}
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	return b.String(), args
}

// Subscribe calls onChange with the current result of filter, and again with a
// fresh result after every write to the store.
func (s *store) Subscribe(filter Filter, onChange func([]match.Game)) func() {
	deliver := func() {
		games, err := s.Query(context.Background(), filter)
		if err != nil {
			log.Error("Failed to refresh game subscription", "error", err)
			return
		}
		onChange(games)
	}
	unsubscribe := s.hub.Subscribe(deliver)
	deliver()
	return unsubscribe
}
