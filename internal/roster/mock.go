package roster

import (
	"fmt"
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/watch"
)

// MockStore is an in-memory RosterStore for tests. It is safe for concurrent use.
type MockStore struct {
	mu     sync.Mutex
	nextID int64
	hub    *watch.Hub

	Players []Player
	Parents []Parent

	// Spies for method calls
	AddPlayerFunc     func(player Player) (Player, error)
	DeletePlayerFunc  func(playerID int64) error
	GetAllPlayersFunc func() ([]Player, error)

	// Call records
	AddPlayerCalls    []Player
	AddParentCalls    []Parent
	DeletePlayerCalls []int64
	DeleteParentCalls []int64
}

func NewMock() *MockStore {
	return &MockStore{nextID: 1, hub: watch.New()}
}

func (m *MockStore) AddPlayer(player Player) (Player, error) {
	m.mu.Lock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, player)
	if m.AddPlayerFunc != nil {
		m.mu.Unlock()
		return m.AddPlayerFunc(player)
	}
	if player.Name == "" {
		m.mu.Unlock()
		return Player{}, ErrEmptyName
	}
	player.ID = m.nextID
	m.nextID++
	m.Players = append(m.Players, player)
	m.mu.Unlock()

	m.hub.Notify()
	return player, nil
}

func (m *MockStore) AddParent(parent Parent) (Parent, error) {
	m.mu.Lock()
	m.AddParentCalls = append(m.AddParentCalls, parent)
	if parent.Name == "" {
		m.mu.Unlock()
		return Parent{}, ErrEmptyName
	}
	parent.ID = m.nextID
	m.nextID++
	m.Parents = append(m.Parents, parent)
	m.mu.Unlock()

	m.hub.Notify()
	return parent, nil
}

func (m *MockStore) DeletePlayer(playerID int64) error {
	m.mu.Lock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, playerID)
	if m.DeletePlayerFunc != nil {
		m.mu.Unlock()
		return m.DeletePlayerFunc(playerID)
	}
	found := false
	players := m.Players[:0]
	for _, p := range m.Players {
		if p.ID == playerID {
			found = true
			continue
		}
		players = append(players, p)
	}
	m.Players = players
	parents := m.Parents[:0]
	for _, p := range m.Parents {
		if p.PlayerID != playerID {
			parents = append(parents, p)
		}
	}
	m.Parents = parents
	m.mu.Unlock()

	if !found {
		return fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}
	m.hub.Notify()
	return nil
}

func (m *MockStore) DeleteParent(parentID int64) error {
	m.mu.Lock()
	m.DeleteParentCalls = append(m.DeleteParentCalls, parentID)
	found := false
	parents := m.Parents[:0]
	for _, p := range m.Parents {
		if p.ID == parentID {
			found = true
			continue
		}
		parents = append(parents, p)
	}
	m.Parents = parents
	m.mu.Unlock()

	if !found {
		return fmt.Errorf("parent %d: %w", parentID, ErrNotFound)
	}
	m.hub.Notify()
	return nil
}

func (m *MockStore) GetAllPlayers() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return append([]Player{}, m.Players...), nil
}

func (m *MockStore) GetAllParents() ([]Parent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Parent{}, m.Parents...), nil
}

func (m *MockStore) GetParentsOf(playerID int64) ([]Parent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parents := []Parent{}
	for _, p := range m.Parents {
		if p.PlayerID == playerID {
			parents = append(parents, p)
		}
	}
	return parents, nil
}

func (m *MockStore) GetPlayer(playerID int64) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Players {
		if p.ID == playerID {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
}

func (m *MockStore) Subscribe(onChange func()) func() {
	return m.hub.Subscribe(onChange)
}
