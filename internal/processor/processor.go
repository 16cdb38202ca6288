package processor

import (
	"context"
	"fmt"

	"github.com/bsluismans-tech/FootballTracker/internal/games"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/bsluismans-tech/FootballTracker/internal/pubsub"
	"github.com/bsluismans-tech/FootballTracker/internal/roster"
	"github.com/bsluismans-tech/FootballTracker/internal/stats"
	"github.com/charmbracelet/log"
)

// New creates a new Processor.
func New(roster Roster, games GameStore, notifier Notifier, counters metrics.CounterStore, pubsub pubsub.PubSubClient, formWindow int) *Processor {
	return &Processor{
		roster:     roster,
		games:      games,
		pubsub:     pubsub,
		notifier:   notifier,
		counters:   counters,
		formWindow: formWindow,
	}
}

// Handler decodes game-finished messages for in-process delivery.
func (p *Processor) Handler(dryRun bool) pubsub.Handler {
	return func(data []byte) error {
		var game match.Game
		if err := p.pubsub.ProcessMessage(data, &game); err != nil {
			return fmt.Errorf("failed to decode game: %w", err)
		}
		return p.HandleGameFinished(game, dryRun)
	}
}

// HandleGameFinished counts the game and announces its result.
func (p *Processor) HandleGameFinished(game match.Game, dryRun bool) error {
	log.Info("Processing finished game", "gameID", game.ID, "opponent", game.Opponent, "result", game.Result())
	if game.Status != match.StatusFinished {
		log.Warn("Ignoring game that is not finished", "gameID", game.ID, "status", game.Status)
		return nil
	}
	game.Normalize()
	p.counters.Increment(CounterGamesFinished)

	players, err := p.roster.GetAllPlayers()
	if err != nil {
		log.Error("Failed to get players", "error", err)
		return fmt.Errorf("failed to get players: %w", err)
	}
	if err := p.notifier.SendResultNotification(game, roster.Names(players), dryRun); err != nil {
		log.Error("Failed to send result notification", "error", err, "gameID", game.ID)
		return fmt.Errorf("failed to send result notification: %w", err)
	}
	p.counters.Increment(CounterResultsAnnounced)
	return nil
}

// Standings summarizes every finished game with roster names filled in.
func (p *Processor) Standings(ctx context.Context) (stats.Summary, error) {
	finished, err := p.games.Query(ctx, games.Filter{Status: match.StatusFinished})
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to query finished games: %w", err)
	}
	players, err := p.roster.GetAllPlayers()
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to get players: %w", err)
	}
	parents, err := p.roster.GetAllParents()
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to get parents: %w", err)
	}
	return stats.Summarize(finished, roster.Names(players), roster.ParentNames(parents), p.formWindow), nil
}

// AnnounceStandings posts the current standings.
func (p *Processor) AnnounceStandings(ctx context.Context, dryRun bool) (stats.Summary, error) {
	summary, err := p.Standings(ctx)
	if err != nil {
		log.Error("Failed to compute standings", "error", err)
		return summary, err
	}
	if err := p.notifier.SendStandings(summary, dryRun); err != nil {
		log.Error("Failed to send standings", "error", err)
		return summary, fmt.Errorf("failed to send standings: %w", err)
	}
	p.counters.Increment(CounterStandingsAnnounced)
	log.Info("Standings announced", "played", summary.Record.Played)
	return summary, nil
}
