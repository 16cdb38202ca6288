package notifier

import (
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/stats"
	"github.com/charmbracelet/log"
)

// Notifier defines a high-level interface for announcing team events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For finished games
	SendResultNotification(game match.Game, names map[int64]string, dryRun bool) error
	// For the season standings
	SendStandings(summary stats.Summary, dryRun bool) error
}

// Nop is used when no notification channel is configured.
type Nop struct{}

var _ Notifier = Nop{}

func (Nop) SendResultNotification(game match.Game, _ map[int64]string, _ bool) error {
	log.Debug("No notifier configured, skipping result notification", "gameID", game.ID)
	return nil
}

func (Nop) SendStandings(_ stats.Summary, _ bool) error {
	log.Debug("No notifier configured, skipping standings")
	return nil
}
