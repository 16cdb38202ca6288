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
	"github.com/rs/cors"
)

func NewServer(rosterStore roster.RosterStore, gameStore games.GameStore, matches *match.Manager, processor *processor.Processor, counters metrics.CounterStore, metricsHandler http.Handler, board *live.Board, gateway http.Handler, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Roster:         rosterStore,
		Games:          gameStore,
		Matches:        matches,
		Processor:      processor,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Board:          board,
		Gateway:        gateway,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /counters", Chain(s.CountersHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.AddPlayerHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}", Chain(s.DeletePlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /parents", Chain(s.ListParentsHandler(), paramsMiddleware))
	s.Router.Handle("POST /parents", Chain(s.AddParentHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /parents/{id}", Chain(s.DeleteParentHandler(), paramsMiddleware))

	s.Router.Handle("GET /games", Chain(s.ListGamesHandler(), paramsMiddleware))
	s.Router.Handle("GET /games/{id}", Chain(s.GetGameHandler(), paramsMiddleware))
	s.Router.Handle("PATCH /games/{id}", Chain(s.PatchGameHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /games/{id}", Chain(s.DeleteGameHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/edit", Chain(s.EditGameHandler(), paramsMiddleware))

	s.Router.Handle("GET /matches", Chain(s.ListSessionsHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(s.NewMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{id}/commands", Chain(s.MatchCommandHandler(), paramsMiddleware))

	s.Router.Handle("GET /stats", Chain(s.StatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats/players/{id}", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("POST /stats/announce", Chain(s.AnnounceStandingsHandler(), paramsMiddleware))

	s.Router.Handle("GET /scoreboard", Chain(s.ScoreboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /ws/live", s.Gateway)

	s.Router.Handle("POST /pubsub/game-finished", Chain(s.GameFinishedPushHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// Handler returns the router wrapped in CORS handling for the configured origins.
// Without configured origins every origin is allowed.
func (s *Server) Handler() http.Handler {
	origins := s.Cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s)
}
