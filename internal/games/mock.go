package games

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/watch"
)

// MockStore is an in-memory GameStore for tests. It is safe for concurrent use.
type MockStore struct {
	mu    sync.Mutex
	hub   *watch.Hub
	Games map[int64]*match.Game

	// Spies for method calls
	UpsertFunc func(game *match.Game) error
	UpdateFunc func(id int64, patch match.Patch) error

	// Call records
	UpsertCalls []match.Game
	UpdateCalls []struct {
		ID    int64
		Patch match.Patch
	}
	DeleteCalls []int64
}

func NewMock() *MockStore {
	return &MockStore{hub: watch.New(), Games: make(map[int64]*match.Game)}
}

func (m *MockStore) Create(_ context.Context, game *match.Game) error {
	m.mu.Lock()
	if _, ok := m.Games[game.ID]; ok {
		m.mu.Unlock()
		return fmt.Errorf("game %d already exists", game.ID)
	}
	m.Games[game.ID] = game.Clone()
	m.mu.Unlock()
	m.hub.Notify()
	return nil
}

func (m *MockStore) Upsert(_ context.Context, game *match.Game) error {
	m.mu.Lock()
	m.UpsertCalls = append(m.UpsertCalls, *game.Clone())
	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(game); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	m.Games[game.ID] = game.Clone()
	m.mu.Unlock()
	m.hub.Notify()
	return nil
}

func (m *MockStore) Update(_ context.Context, id int64, patch match.Patch) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, struct {
		ID    int64
		Patch match.Patch
	}{id, patch})
	if m.UpdateFunc != nil {
		err := m.UpdateFunc(id, patch)
		m.mu.Unlock()
		return err
	}
	g, ok := m.Games[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	applyPatch(g, patch)
	m.mu.Unlock()
	m.hub.Notify()
	return nil
}

func applyPatch(g *match.Game, patch match.Patch) {
	if patch.Status != nil {
		g.Status = *patch.Status
	}
	if patch.EndedAt != nil {
		ended := *patch.EndedAt
		g.EndedAt = &ended
	}
	if patch.Date != nil {
		g.Date = *patch.Date
	}
	if patch.Opponent != nil {
		g.Opponent = *patch.Opponent
	}
	if patch.IsAway != nil {
		g.IsAway = *patch.IsAway
	}
	if patch.Notes != nil {
		g.Notes = *patch.Notes
	}
}

func (m *MockStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if _, ok := m.Games[id]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	delete(m.Games, id)
	m.mu.Unlock()
	m.hub.Notify()
	return nil
}

func (m *MockStore) Get(_ context.Context, id int64) (*match.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.Games[id]
	if !ok {
		return nil, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return g.Clone(), nil
}

func (m *MockStore) Query(_ context.Context, filter Filter) ([]match.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []match.Game{}
	for _, g := range m.Games {
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		out = append(out, *g.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date) != filter.Newest
		}
		return (out[i].ID < out[j].ID) != filter.Newest
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MockStore) Subscribe(filter Filter, onChange func([]match.Game)) func() {
	deliver := func() {
		games, _ := m.Query(context.Background(), filter)
		onChange(games)
	}
	unsubscribe := m.hub.Subscribe(deliver)
	deliver()
	return unsubscribe
}
