package processor

import (
	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/bsluismans-tech/FootballTracker/internal/pubsub"
)

// Counter keys kept in the counters table.
const (
	CounterGamesFinished      = "games_finished"
	CounterResultsAnnounced   = "results_announced"
	CounterStandingsAnnounced = "standings_announced"
)

// Processor handles what happens after a game is finished.
type Processor struct {
	roster     Roster
	games      GameStore
	pubsub     pubsub.PubSubClient
	notifier   Notifier
	counters   metrics.CounterStore
	formWindow int
}
