package games

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/watch"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
)

var ErrNotFound = errors.New("game not found")

// store handles all database operations for match records.
type store struct {
	db    *sqlx.DB
	clock clockwork.Clock
	hub   *watch.Hub
	mu    sync.RWMutex
}

// Filter selects match records. The zero Filter returns every game, oldest first.
type Filter struct {
	Status match.Status `json:"status,omitempty"`
	Newest bool         `json:"newest,omitempty"`
	Limit  int          `json:"limit,omitempty"`
}

// gameRow is a games table row.
type gameRow struct {
	ID                 int64         `db:"id"`
	DateMs             int64         `db:"date_ms"`
	Status             string        `db:"status"`
	Opponent           string        `db:"opponent"`
	IsAway             bool          `db:"is_away"`
	Notes              string        `db:"notes"`
	PlayersPresentJSON string        `db:"players_present_json"`
	ParentsPresentJSON string        `db:"parents_present_json"`
	QuartersJSON       string        `db:"quarters_json"`
	EndedAtMs          sql.NullInt64 `db:"ended_at_ms"`
	UpdatedAtMs        int64         `db:"updated_at_ms"`
}
