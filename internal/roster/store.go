package roster

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bsluismans-tech/FootballTracker/internal/ids"
	"github.com/bsluismans-tech/FootballTracker/internal/watch"
	"github.com/charmbracelet/log"
)

// New creates a new RosterStore.
func New(db *sql.DB, gen *ids.Generator) RosterStore {
	return &store{
		db:  db,
		ids: gen,
		hub: watch.New(),
	}
}

func (s *store) AddPlayer(player Player) (Player, error) {
	if strings.TrimSpace(player.Name) == "" {
		return Player{}, ErrEmptyName
	}
	s.mu.Lock()
	player.ID = s.ids.Next()
	_, err := s.db.Exec("INSERT INTO players (id, name) VALUES (?, ?)", player.ID, player.Name)
	s.mu.Unlock()
	if err != nil {
		return Player{}, fmt.Errorf("insert player: %w", err)
	}

	log.Debug("Added player", "id", player.ID, "name", player.Name)
	s.hub.Notify()
	return player, nil
}

func (s *store) AddParent(parent Parent) (Parent, error) {
	if strings.TrimSpace(parent.Name) == "" {
		return Parent{}, ErrEmptyName
	}
	s.mu.Lock()
	parent.ID = s.ids.Next()
	_, err := s.db.Exec("INSERT INTO parents (id, name, player_id) VALUES (?, ?, ?)", parent.ID, parent.Name, parent.PlayerID)
	s.mu.Unlock()
	if err != nil {
		return Parent{}, fmt.Errorf("insert parent: %w", err)
	}

	log.Debug("Added parent", "id", parent.ID, "name", parent.Name, "player_id", parent.PlayerID)
	s.hub.Notify()
	return parent, nil
}

// DeletePlayer removes the player and every parent linked to it in one transaction.
func (s *store) DeletePlayer(playerID int64) error {
	s.mu.Lock()
	err := s.deletePlayerTx(playerID)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	log.Info("Deleted player", "id", playerID)
	s.hub.Notify()
	return nil
}

func (s *store) deletePlayerTx(playerID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM parents WHERE player_id = ?", playerID); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete parents of player %d: %w", playerID, err)
	}
	res, err := tx.Exec("DELETE FROM players WHERE id = ?", playerID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("delete player %d: %w", playerID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}

	return tx.Commit()
}

func (s *store) DeleteParent(parentID int64) error {
	s.mu.Lock()
	res, err := s.db.Exec("DELETE FROM parents WHERE id = ?", parentID)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete parent %d: %w", parentID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("parent %d: %w", parentID, ErrNotFound)
	}

	s.hub.Notify()
	return nil
}

// GetAllPlayers returns every player ordered by creation.
func (s *store) GetAllPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name FROM players ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// GetAllParents returns every parent ordered by creation.
func (s *store) GetAllParents() ([]Parent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryParents("SELECT id, name, player_id FROM parents ORDER BY id")
}

func (s *store) GetParentsOf(playerID int64) ([]Parent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryParents("SELECT id, name, player_id FROM parents WHERE player_id = ? ORDER BY id", playerID)
}

func (s *store) queryParents(query string, args ...any) ([]Parent, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parents := []Parent{}
	for rows.Next() {
		var p Parent
		if err := rows.Scan(&p.ID, &p.Name, &p.PlayerID); err != nil {
			log.Error("Failed to scan parent row", "error", err)
			continue
		}
		parents = append(parents, p)
	}
	return parents, rows.Err()
}

func (s *store) GetPlayer(playerID int64) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Player
	err := s.db.QueryRow("SELECT id, name FROM players WHERE id = ?", playerID).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Subscribe registers onChange to be called after every successful write.
func (s *store) Subscribe(onChange func()) func() {
	return s.hub.Subscribe(onChange)
}
