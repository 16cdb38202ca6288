package live

import (
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/watch"
)

// Update is a scoreboard together with where it came from.
type Update struct {
	Scoreboard Scoreboard
	// Remote is set for scoreboards relayed from another instance.
	Remote bool
}

// Board holds the latest scoreboard and tells listeners when it changes.
type Board struct {
	mu     sync.RWMutex
	latest *Update
	hub    *watch.Hub
}

func NewBoard() *Board {
	return &Board{hub: watch.New()}
}

func (b *Board) Publish(sb Scoreboard, remote bool) {
	b.mu.Lock()
	b.latest = &Update{Scoreboard: sb, Remote: remote}
	b.mu.Unlock()
	b.hub.Notify()
}

// Latest returns the newest update, if any was published.
func (b *Board) Latest() (Update, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.latest == nil {
		return Update{}, false
	}
	return *b.latest, true
}

// Listen calls fn with the newest update after every publish.
func (b *Board) Listen(fn func(Update)) func() {
	return b.hub.Subscribe(func() {
		if u, ok := b.Latest(); ok {
			fn(u)
		}
	})
}
