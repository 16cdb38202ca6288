package roster

import (
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/ids"
	"github.com/bsluismans-tech/FootballTracker/internal/watch"
)

var (
	ErrEmptyName = errors.New("name must not be empty")
	ErrNotFound  = errors.New("not found")
)

// store handles all database operations for the roster.
type store struct {
	db  *sql.DB
	ids *ids.Generator
	hub *watch.Hub
	mu  sync.RWMutex
}

// Player is a squad member. The ID is assigned by the store on creation.
type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Parent is a guardian linked to exactly one player.
type Parent struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PlayerID int64  `json:"playerId"`
}

// NewPlayer validates the name and returns a Player ready to be added.
func NewPlayer(name string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrEmptyName
	}
	return Player{Name: name}, nil
}

// NewParent validates the name and returns a Parent for the given player.
func NewParent(name string, playerID int64) (Parent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Parent{}, ErrEmptyName
	}
	return Parent{Name: name, PlayerID: playerID}, nil
}

// Names maps player IDs to names.
func Names(players []Player) map[int64]string {
	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names
}

// ParentNames maps parent ids to names.
func ParentNames(parents []Parent) map[int64]string {
	names := make(map[int64]string, len(parents))
	for _, p := range parents {
		names[p.ID] = p.Name
	}
	return names
}
