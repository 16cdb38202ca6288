package games

import (
	"context"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
)

// GameStore is the durable home of match records.
type GameStore interface {
	Create(ctx context.Context, game *match.Game) error
	Upsert(ctx context.Context, game *match.Game) error
	Update(ctx context.Context, id int64, patch match.Patch) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*match.Game, error)
	Query(ctx context.Context, filter Filter) ([]match.Game, error)
	Subscribe(filter Filter, onChange func([]match.Game)) (unsubscribe func())
}
