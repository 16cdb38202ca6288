package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	statsRecorded    map[string]int
	liveSyncSent     int
	liveSyncFailed   int
	gamesSaved       int
	saveDurations    []float64
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		statsRecorded: make(map[string]int),
		saveDurations: make([]float64, 0),
	}
}

func (m *Mock) IncStatRecorded(field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsRecorded[field]++
}

func (m *Mock) IncLiveSyncSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveSyncSent++
}

func (m *Mock) IncLiveSyncFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveSyncFailed++
}

func (m *Mock) IncGamesSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesSaved++
}

func (m *Mock) ObserveSaveDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDurations = append(m.saveDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// StatsRecorded returns how often IncStatRecorded was called for field.
func (m *Mock) StatsRecorded(field string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsRecorded[field]
}

func (m *Mock) LiveSyncSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveSyncSent
}

func (m *Mock) LiveSyncFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveSyncFailed
}

func (m *Mock) GamesSaved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesSaved
}

// SaveDurations returns every duration passed to ObserveSaveDuration.
func (m *Mock) SaveDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.saveDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}

// Nop discards every metric. Used when a component is built without a metrics service.
type Nop struct{}

func (Nop) IncStatRecorded(string)      {}
func (Nop) IncLiveSyncSent()            {}
func (Nop) IncLiveSyncFailed()          {}
func (Nop) IncGamesSaved()              {}
func (Nop) ObserveSaveDuration(float64) {}
func (Nop) IncSlackNotifSent()          {}
func (Nop) IncSlackNotifFailed()        {}
func (Nop) SetStartupTime(float64)      {}
