package metrics

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	IncStatRecorded(field string)
	IncLiveSyncSent()
	IncLiveSyncFailed()
	IncGamesSaved()
	ObserveSaveDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// CounterStore keeps lifetime counters in the database so they survive restarts.
type CounterStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
