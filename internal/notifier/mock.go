package notifier

import (
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/stats"
)

// ResultCall records one SendResultNotification call.
type ResultCall struct {
	Game   match.Game
	Names  map[int64]string
	DryRun bool
}

// StandingsCall records one SendStandings call.
type StandingsCall struct {
	Summary stats.Summary
	DryRun  bool
}

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendResultNotificationFunc func(game match.Game, names map[int64]string, dryRun bool) error
	SendStandingsFunc          func(summary stats.Summary, dryRun bool) error

	// Call records
	resultCalls    []ResultCall
	standingsCalls []StandingsCall
}

var _ Notifier = &Mock{}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendResultNotification(game match.Game, names map[int64]string, dryRun bool) error {
	m.mu.Lock()
	m.resultCalls = append(m.resultCalls, ResultCall{Game: game, Names: names, DryRun: dryRun})
	fn := m.SendResultNotificationFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(game, names, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(summary stats.Summary, dryRun bool) error {
	m.mu.Lock()
	m.standingsCalls = append(m.standingsCalls, StandingsCall{Summary: summary, DryRun: dryRun})
	fn := m.SendStandingsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(summary, dryRun)
	}
	return nil
}

// ResultCalls returns a copy of the recorded result notifications.
func (m *Mock) ResultCalls() []ResultCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ResultCall(nil), m.resultCalls...)
}

// StandingsCalls returns a copy of the recorded standings notifications.
func (m *Mock) StandingsCalls() []StandingsCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StandingsCall(nil), m.standingsCalls...)
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultCalls = nil
	m.standingsCalls = nil
}
