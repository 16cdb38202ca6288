package match

import (
	"context"
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/charmbracelet/log"
)

// liveSync writes in-progress snapshots to the store in the background.
// Only the newest queued snapshot is kept, so the last mutation always wins.
type liveSync struct {
	store   Store
	metrics metrics.Metrics

	mu       sync.Mutex
	cond     *sync.Cond
	pending  *Game
	inflight bool
	closed   bool
	kick     chan struct{}
	done     chan struct{}
}

func newLiveSync(store Store, m metrics.Metrics) *liveSync {
	s := &liveSync{
		store:   store,
		metrics: m,
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Push queues a snapshot, replacing any snapshot not yet written.
func (s *liveSync) Push(game *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = game
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Drain drops the queued snapshot and waits for a running write to finish.
func (s *liveSync) Drain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	for s.inflight {
		s.cond.Wait()
	}
}

// Flush waits until every queued snapshot has been written.
func (s *liveSync) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.pending != nil || s.inflight {
		s.cond.Wait()
	}
}

func (s *liveSync) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending = nil
	close(s.kick)
	s.cond.Broadcast()
	s.mu.Unlock()
	<-s.done
}

func (s *liveSync) run() {
	defer close(s.done)
	for range s.kick {
		for s.writeNext() {
		}
	}
}

func (s *liveSync) writeNext() bool {
	s.mu.Lock()
	game := s.pending
	if game == nil {
		s.mu.Unlock()
		return false
	}
	s.pending = nil
	s.inflight = true
	s.mu.Unlock()

	if err := s.store.Upsert(context.Background(), game); err != nil {
		log.Warn("Live sync failed", "gameID", game.ID, "error", err)
		s.metrics.IncLiveSyncFailed()
	} else {
		log.Debug("Live sync written", "gameID", game.ID, "goals", game.TotalGoals(), "opponentGoals", game.TotalOpponentGoals())
		s.metrics.IncLiveSyncSent()
	}

	s.mu.Lock()
	s.inflight = false
	s.cond.Broadcast()
	s.mu.Unlock()
	return true
}
