package match

import (
	"context"

	"github.com/bsluismans-tech/FootballTracker/internal/roster"
)

// Store is the part of the match record store the machine writes to.
type Store interface {
	Upsert(ctx context.Context, game *Game) error
	Update(ctx context.Context, id int64, patch Patch) error
}

// GameStore adds the lookups the Manager needs to reopen a stored game.
type GameStore interface {
	Store
	Get(ctx context.Context, id int64) (*Game, error)
}

// Roster is the part of the roster store used to set up a new match.
type Roster interface {
	GetAllPlayers() ([]roster.Player, error)
}
