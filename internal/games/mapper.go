package games

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
)

func toRow(game *match.Game, now time.Time) (gameRow, error) {
	g := game.Clone()
	g.Normalize()

	players, err := json.Marshal(g.PlayersPresent)
	if err != nil {
		return gameRow{}, err
	}
	parents, err := json.Marshal(g.ParentsPresent)
	if err != nil {
		return gameRow{}, err
	}
	quarters, err := json.Marshal(g.Quarters)
	if err != nil {
		return gameRow{}, err
	}

	row := gameRow{
		ID:                 g.ID,
		DateMs:             g.Date.UnixMilli(),
		Status:             string(g.Status),
		Opponent:           g.Opponent,
		IsAway:             g.IsAway,
		Notes:              g.Notes,
		PlayersPresentJSON: string(players),
		ParentsPresentJSON: string(parents),
		QuartersJSON:       string(quarters),
		UpdatedAtMs:        now.UnixMilli(),
	}
	if g.EndedAt != nil {
		row.EndedAtMs = sql.NullInt64{Int64: g.EndedAt.UnixMilli(), Valid: true}
	}
	return row, nil
}

func fromRow(row gameRow) (*match.Game, error) {
	g := &match.Game{
		ID:       row.ID,
		Date:     time.UnixMilli(row.DateMs).UTC(),
		Status:   match.Status(row.Status),
		Opponent: row.Opponent,
		IsAway:   row.IsAway,
		Notes:    row.Notes,
	}
	if err := json.Unmarshal([]byte(row.PlayersPresentJSON), &g.PlayersPresent); err != nil {
		return nil, fmt.Errorf("game %d players: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.ParentsPresentJSON), &g.ParentsPresent); err != nil {
		return nil, fmt.Errorf("game %d parents: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.QuartersJSON), &g.Quarters); err != nil {
		return nil, fmt.Errorf("game %d quarters: %w", row.ID, err)
	}
	if row.EndedAtMs.Valid {
		ended := time.UnixMilli(row.EndedAtMs.Int64).UTC()
		g.EndedAt = &ended
	}
	g.Normalize()
	return g, nil
}
