package processor

import (
	"context"

	"github.com/bsluismans-tech/FootballTracker/internal/games"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/notifier"
	"github.com/bsluismans-tech/FootballTracker/internal/roster"
)

// Roster defines the roster lookups required by the processor.
type Roster interface {
	GetAllPlayers() ([]roster.Player, error)
	GetAllParents() ([]roster.Parent, error)
}

// GameStore defines the match record queries required by the processor.
type GameStore interface {
	Query(ctx context.Context, filter games.Filter) ([]match.Game, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
