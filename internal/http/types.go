package http

import (
	"net/http"

	"github.com/bsluismans-tech/FootballTracker/internal/config"
	"github.com/bsluismans-tech/FootballTracker/internal/games"
	"github.com/bsluismans-tech/FootballTracker/internal/live"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/bsluismans-tech/FootballTracker/internal/processor"
	"github.com/bsluismans-tech/FootballTracker/internal/pubsub"
	"github.com/bsluismans-tech/FootballTracker/internal/roster"
	"github.com/bsluismans-tech/FootballTracker/internal/stats"
)

type Server struct {
	Roster         roster.RosterStore
	Games          games.GameStore
	Matches        *match.Manager
	Processor      *processor.Processor
	Counters       metrics.CounterStore
	MetricsHandler http.Handler
	Board          *live.Board
	Gateway        http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// matchView is what the match endpoints return: where the session is and the game it edits.
type matchView struct {
	State match.State `json:"state"`
	Game  match.Game  `json:"game"`
}

type playerStatsView struct {
	Player roster.Player    `json:"player"`
	Stats  stats.PlayerLine `json:"stats"`
}

type nameRequest struct {
	Name     string `json:"name"`
	PlayerID int64  `json:"playerId"`
}

// pushRequest is the body Google Pub/Sub posts to push subscriptions.
type pushRequest struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"` // base64-encoded message payload
	} `json:"message"`
}
