package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/config"
	"github.com/bsluismans-tech/FootballTracker/internal/database"
	"github.com/bsluismans-tech/FootballTracker/internal/games"
	server "github.com/bsluismans-tech/FootballTracker/internal/http"
	"github.com/bsluismans-tech/FootballTracker/internal/ids"
	"github.com/bsluismans-tech/FootballTracker/internal/live"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/bsluismans-tech/FootballTracker/internal/notifier"
	"github.com/bsluismans-tech/FootballTracker/internal/notifier/slack"
	"github.com/bsluismans-tech/FootballTracker/internal/processor"
	"github.com/bsluismans-tech/FootballTracker/internal/pubsub"
	"github.com/bsluismans-tech/FootballTracker/internal/roster"
	"github.com/bsluismans-tech/FootballTracker/internal/snapshot"
	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clock := clockwork.NewRealClock()
	gen := ids.New(clock)
	rosterStore := roster.New(db, gen)
	gameStore := games.New(sqlx.NewDb(db, driverName(cfg)), clock)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	counters := metrics.NewCounterStore(db)

	var notif notifier.Notifier = notifier.Nop{}
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, cfg.Team.Name, metricsSvc)
	} else {
		log.Warn("Slack is not configured, results will not be announced")
	}

	// Without a Google Cloud project, finished games are handled in-process.
	var ps pubsub.PubSubClient
	var direct *pubsub.Direct
	if cfg.ProjectID != "" {
		ps = pubsub.New(cfg.ProjectID)
	} else {
		direct = pubsub.NewDirect()
		ps = direct
	}
	defer ps.Close()

	proc := processor.New(rosterStore, gameStore, notif, counters, ps, cfg.Team.FormWindow)
	if direct != nil {
		direct.Handle(pubsub.EventGameFinished, proc.Handler(false))
	}
	manager := match.NewManager(gameStore, rosterStore, gen, clock, metricsSvc, ps)
	defer manager.Close()

	if cfg.SnapshotDir != "" {
		stopSnapshots := snapshot.Watch(snapshot.New(cfg.SnapshotDir), rosterStore, gameStore)
		defer stopSnapshots()
		log.Info("Writing local snapshots", "dir", cfg.SnapshotDir)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	board := live.NewBoard()
	stopFeed := live.Feed(gameStore, board, cfg.Team.Name)
	defer stopFeed()
	gateway := live.NewGateway(board, live.DefaultGatewayConfig())
	go gateway.Start(ctx)

	if cfg.NatsURL != "" {
		nc, err := live.Connect(cfg.NatsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %s", err)
		}
		defer nc.Close()
		relay, err := live.NewRelay(nc, board)
		if err != nil {
			log.Fatalf("Failed to start scoreboard relay: %s", err)
		}
		defer relay.Close()
	}

	s := server.NewServer(
		rosterStore,
		gameStore,
		manager,
		proc,
		counters,
		metricsHandler,
		board,
		gateway,
		cfg,
		ps,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s.Handler(),
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port, "team", cfg.Team.Name)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// driverName tells sqlx which bind style the open database uses.
func driverName(cfg config.Config) string {
	if cfg.Turso.PrimaryURL != "" {
		return "libsql"
	}
	return "sqlite3"
}
