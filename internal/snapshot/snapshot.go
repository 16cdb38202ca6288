// Package snapshot keeps whole-collection copies of the roster and match records on
// local disk. The files are a fallback for offline inspection, never read back by
// the service itself.
package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/games"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/roster"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	CollectionPlayers = "players"
	CollectionParents = "parents"
	CollectionGames   = "games"
)

// Store reads and writes collections as msgpack files in one directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".msgpack")
}

// Save replaces the collection file. The file is written to a temporary name
// first, so readers see either the old or the new snapshot.
func (s *Store) Save(collection string, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, collection+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	log.Debug("Snapshot written", "collection", collection, "bytes", len(data))
	return nil
}

// Load decodes the collection file into v.
func (s *Store) Load(collection string, v any) error {
	s.mu.Lock()
	data, err := os.ReadFile(s.path(collection))
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("read %s: %w", collection, err)
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// Watch keeps the snapshots in step with the stores: every change rewrites the
// affected collections. It returns the function that stops watching.
func Watch(s *Store, r roster.RosterStore, g games.GameStore) func() {
	writeRoster := func() {
		players, err := r.GetAllPlayers()
		if err != nil {
			log.Error("Failed to read players for snapshot", "error", err)
			return
		}
		parents, err := r.GetAllParents()
		if err != nil {
			log.Error("Failed to read parents for snapshot", "error", err)
			return
		}
		if err := s.Save(CollectionPlayers, players); err != nil {
			log.Error("Failed to write snapshot", "collection", CollectionPlayers, "error", err)
		}
		if err := s.Save(CollectionParents, parents); err != nil {
			log.Error("Failed to write snapshot", "collection", CollectionParents, "error", err)
		}
	}
	writeGames := func(all []match.Game) {
		if err := s.Save(CollectionGames, all); err != nil {
			log.Error("Failed to write snapshot", "collection", CollectionGames, "error", err)
		}
	}

	stopRoster := r.Subscribe(writeRoster)
	writeRoster()
	stopGames := g.Subscribe(games.Filter{}, writeGames)
	return func() {
		stopRoster()
		stopGames()
	}
}

// Contents is everything a snapshot directory holds.
type Contents struct {
	Players []roster.Player `json:"players"`
	Parents []roster.Parent `json:"parents"`
	Games   []match.Game    `json:"games"`
}

// LoadAll reads every collection. Missing files are left empty.
func (s *Store) LoadAll() (Contents, error) {
	var c Contents
	targets := map[string]any{
		CollectionPlayers: &c.Players,
		CollectionParents: &c.Parents,
		CollectionGames:   &c.Games,
	}
	for collection, v := range targets {
		err := s.Load(collection, v)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Contents{}, err
		}
	}
	return c, nil
}
