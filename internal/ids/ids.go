// Package ids hands out creation-timestamp identifiers.
package ids

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

// Generator returns millisecond timestamps that are strictly increasing, so two
// records created within the same millisecond still get distinct ids.
type Generator struct {
	clock clockwork.Clock
	mu    sync.Mutex
	last  int64
}

// New creates a Generator reading time from clock.
func New(clock clockwork.Clock) *Generator {
	return &Generator{clock: clock}
}

// Next returns the next id.
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.clock.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
