package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	StatsRecorded      *prometheus.CounterVec
	LiveSyncSent       prometheus.Counter
	LiveSyncFailed     prometheus.Counter
	GamesSaved         prometheus.Counter
	SaveDuration       prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
