package match

import (
	"context"
	"fmt"
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/ids"
	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/bsluismans-tech/FootballTracker/internal/pubsub"
	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
)

// Manager owns the running match sessions, one machine per game id.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Machine

	store   GameStore
	roster  Roster
	ids     *ids.Generator
	clock   clockwork.Clock
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient
}

func NewManager(store GameStore, roster Roster, gen *ids.Generator, clock clockwork.Clock, m metrics.Metrics, ps pubsub.PubSubClient) *Manager {
	return &Manager{
		sessions: make(map[int64]*Machine),
		store:    store,
		roster:   roster,
		ids:      gen,
		clock:    clock,
		metrics:  m,
		pubsub:   ps,
	}
}

// NewMatch creates a game dated now with the whole roster present and opens a session for it.
func (mg *Manager) NewMatch() (*Machine, error) {
	players, err := mg.roster.GetAllPlayers()
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if len(players) == 0 {
		return nil, ErrEmptyRoster
	}
	present := make([]int64, 0, len(players))
	for _, p := range players {
		present = append(present, p.ID)
	}

	game := NewGame(mg.ids.Next(), mg.clock.Now(), present)
	m := NewMachine(game, mg.options())
	mg.add(game.ID, m)
	log.Info("New match session", "gameID", game.ID, "players", len(present))
	return m, nil
}

// Edit reopens a stored game. An already running session for the game is returned as is.
func (mg *Manager) Edit(ctx context.Context, id int64) (*Machine, error) {
	if m, err := mg.Get(id); err == nil {
		return m, nil
	}
	game, err := mg.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load game %d: %w", id, err)
	}
	m := Reopen(game, mg.options())
	mg.add(id, m)
	log.Info("Editing match", "gameID", id, "status", game.Status)
	return m, nil
}

func (mg *Manager) Get(id int64) (*Machine, error) {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	m, ok := mg.sessions[id]
	if !ok {
		return nil, fmt.Errorf("game %d: %w", id, ErrSessionNotFound)
	}
	return m, nil
}

// Dispatch applies a command to a session and drops the session once it is saved or cancelled.
func (mg *Manager) Dispatch(ctx context.Context, id int64, cmd Command) (*Machine, error) {
	m, err := mg.Get(id)
	if err != nil {
		return nil, err
	}
	if err := m.Apply(ctx, cmd); err != nil {
		return m, err
	}
	if m.State().Terminal() {
		mg.remove(id)
	}
	return m, nil
}

// Sessions returns the ids of the running sessions.
func (mg *Manager) Sessions() []int64 {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	out := make([]int64, 0, len(mg.sessions))
	for id := range mg.sessions {
		out = append(out, id)
	}
	return out
}

// Close stops every running session's live sync.
func (mg *Manager) Close() {
	mg.mu.Lock()
	sessions := mg.sessions
	mg.sessions = make(map[int64]*Machine)
	mg.mu.Unlock()
	for _, m := range sessions {
		m.Close()
	}
}

func (mg *Manager) add(id int64, m *Machine) {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	if old, ok := mg.sessions[id]; ok {
		old.Close()
	}
	mg.sessions[id] = m
}

func (mg *Manager) remove(id int64) {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	delete(mg.sessions, id)
}

func (mg *Manager) options() Options {
	return Options{
		Store:      mg.store,
		Clock:      mg.clock,
		Metrics:    mg.metrics,
		OnComplete: mg.publishFinished,
	}
}

func (mg *Manager) publishFinished(game Game) {
	if mg.pubsub == nil {
		return
	}
	if err := mg.pubsub.SendMessage(pubsub.EventGameFinished, game); err != nil {
		log.Error("Failed to publish finished game", "gameID", game.ID, "error", err)
	}
}
