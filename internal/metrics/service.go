package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		StatsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squad_stats_recorded_total",
			Help: "The total number of goals, assists and tackles recorded during matches.",
		}, []string{"field"}),
		LiveSyncSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_live_sync_sent_total",
			Help: "The total number of live match snapshots written to the store.",
		}),
		LiveSyncFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_live_sync_failed_total",
			Help: "The total number of live match snapshots that failed to write.",
		}),
		GamesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_games_saved_total",
			Help: "The total number of matches saved as finished.",
		}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "squad_game_save_duration_seconds",
			Help:    "The duration of the final match save.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squad_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "squad_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.StatsRecorded,
		s.LiveSyncSent,
		s.LiveSyncFailed,
		s.GamesSaved,
		s.SaveDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncStatRecorded(field string) {
	s.StatsRecorded.WithLabelValues(field).Inc()
}

func (s *Service) IncLiveSyncSent() {
	s.LiveSyncSent.Inc()
}

func (s *Service) IncLiveSyncFailed() {
	s.LiveSyncFailed.Inc()
}

func (s *Service) IncGamesSaved() {
	s.GamesSaved.Inc()
}

func (s *Service) ObserveSaveDuration(duration float64) {
	s.SaveDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
