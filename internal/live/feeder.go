package live

import (
	"reflect"
	"sync"

	"github.com/bsluismans-tech/FootballTracker/internal/games"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/charmbracelet/log"
)

// Feeder follows the match record store and keeps a Board showing the active
// game, or the last finished game when nothing is being played.
type Feeder struct {
	board    *Board
	teamName string

	mu       sync.Mutex
	active   *match.Game
	finished *match.Game
	last     *Scoreboard
}

// Feed starts following store. It returns the function that stops it.
func Feed(store games.GameStore, board *Board, teamName string) func() {
	f := &Feeder{board: board, teamName: teamName}
	stopActive := store.Subscribe(games.Filter{Status: match.StatusActive, Newest: true, Limit: 1}, func(gs []match.Game) {
		f.update(func() { f.active = first(gs) })
	})
	stopFinished := store.Subscribe(games.Filter{Status: match.StatusFinished, Newest: true, Limit: 1}, func(gs []match.Game) {
		f.update(func() { f.finished = first(gs) })
	})
	return func() {
		stopActive()
		stopFinished()
	}
}

func first(gs []match.Game) *match.Game {
	if len(gs) == 0 {
		return nil
	}
	g := gs[0]
	return &g
}

func (f *Feeder) update(set func()) {
	f.mu.Lock()
	set()
	current := f.active
	if current == nil {
		current = f.finished
	}
	if current == nil {
		f.mu.Unlock()
		return
	}
	sb := NewScoreboard(*current, f.teamName)
	if f.last != nil && reflect.DeepEqual(*f.last, sb) {
		f.mu.Unlock()
		return
	}
	f.last = &sb
	f.mu.Unlock()

	log.Debug("Scoreboard changed", "gameID", sb.GameID, "home", sb.HomeScore, "away", sb.AwayScore, "live", sb.Live)
	f.board.Publish(sb, false)
}
