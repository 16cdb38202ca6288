// Package watch is the in-process change notification used by the stores.
package watch

import (
	"sort"
	"sync"
)

// Hub fans a change signal out to its subscribers. It is safe for concurrent use.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subs: make(map[int]func())}
}

// Subscribe registers fn and returns the function that removes it again.
// Calling the returned function more than once is harmless.
func (h *Hub) Subscribe(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	h.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
		})
	}
}

// Notify calls every subscriber in subscription order. Subscribers run outside the
// hub lock, so they may subscribe, unsubscribe or read the store that notified them.
func (h *Hub) Notify() {
	h.mu.Lock()
	keys := make([]int, 0, len(h.subs))
	for id := range h.subs {
		keys = append(keys, id)
	}
	sort.Ints(keys)
	fns := make([]func(), 0, len(keys))
	for _, id := range keys {
		fns = append(fns, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
