package match_test

import (
	"context"
	"errors"
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
)

var errStoreNotFound = errors.New("not found")

// fakeStore is an in-memory match record store that records every write.
type fakeStore struct {
	mu         sync.Mutex
	games      map[int64]*match.Game
	upserts    []match.Game
	updates    []match.Patch
	UpsertFunc func(game *match.Game) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{games: make(map[int64]*match.Game)}
}

func (f *fakeStore) Upsert(_ context.Context, game *match.Game) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpsertFunc != nil {
		if err := f.UpsertFunc(game); err != nil {
			return err
		}
	}
	f.games[game.ID] = game.Clone()
	f.upserts = append(f.upserts, *game.Clone())
	return nil
}

func (f *fakeStore) Update(_ context.Context, id int64, patch match.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, patch)
	g, ok := f.games[id]
	if !ok {
		return errStoreNotFound
	}
	if patch.Status != nil {
		g.Status = *patch.Status
	}
	if patch.Notes != nil {
		g.Notes = *patch.Notes
	}
	return nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (*match.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[id]
	if !ok {
		return nil, errStoreNotFound
	}
	return g.Clone(), nil
}

func (f *fakeStore) stored(id int64) (*match.Game, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[id]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

func (f *fakeStore) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func (f *fakeStore) lastUpsert() match.Game {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts[len(f.upserts)-1]
}

func (f *fakeStore) patches() []match.Patch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]match.Patch(nil), f.updates...)
}
