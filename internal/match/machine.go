package match

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
)

// Stage is the position of a match session in its flow.
type Stage string

const (
	StageSetup     Stage = "setup"
	StagePlay      Stage = "play"
	StageReview    Stage = "review"
	StageSaved     Stage = "saved"
	StageCancelled Stage = "cancelled"
)

// State is a read-only view of where a machine is.
type State struct {
	Stage         Stage `json:"stage"`
	Quarter       int   `json:"quarter"`
	CancelPending bool  `json:"cancelPending"`
}

func (s State) Terminal() bool {
	return s.Stage == StageSaved || s.Stage == StageCancelled
}

// Options configures a Machine.
type Options struct {
	Store   Store
	Clock   clockwork.Clock
	Metrics metrics.Metrics
	// OnComplete is called with the finished game after a successful save.
	OnComplete func(Game)
}

// Machine drives a single match from setup to saved or cancelled.
// It is safe for concurrent use, but a match is meant to have one driver.
type Machine struct {
	mu            sync.Mutex
	game          *Game
	original      *Game
	stage         Stage
	quarter       int
	cancelPending bool

	store      Store
	clock      clockwork.Clock
	metrics    metrics.Metrics
	onComplete func(Game)
	sync       *liveSync
}

// NewMachine starts a session for a new game in setup.
func NewMachine(game *Game, opts Options) *Machine {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	game.Normalize()
	return &Machine{
		game:       game,
		stage:      StageSetup,
		store:      opts.Store,
		clock:      opts.Clock,
		metrics:    opts.Metrics,
		onComplete: opts.OnComplete,
		sync:       newLiveSync(opts.Store, opts.Metrics),
	}
}

// Reopen starts a session that edits a stored game under the same id. Cancelling
// it puts the stored record back the way it was.
func Reopen(game *Game, opts Options) *Machine {
	m := NewMachine(game, opts)
	m.original = game.Clone()
	return m
}

func (m *Machine) ID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.ID
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state()
}

func (m *Machine) state() State {
	return State{Stage: m.stage, Quarter: m.quarter, CancelPending: m.cancelPending}
}

// Game returns a copy of the game as it stands.
func (m *Machine) Game() Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.game.Clone()
}

func (m *Machine) terminal() bool {
	return m.stage == StageSaved || m.stage == StageCancelled
}

func (m *Machine) transitionError(action string) error {
	return fmt.Errorf("%s from %s: %w", action, m.stage, ErrInvalidTransition)
}

// synced queues a live snapshot when the machine is in play or review.
func (m *Machine) synced() {
	if m.stage != StagePlay && m.stage != StageReview {
		return
	}
	m.sync.Push(m.game.Clone())
}

func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageSetup {
		return m.transitionError("start")
	}
	m.cancelPending = false
	m.stage = StagePlay
	m.quarter = 0
	m.game.Status = StatusActive
	log.Info("Match started", "gameID", m.game.ID, "opponent", m.game.Opponent)
	m.synced()
	return nil
}

func (m *Machine) Advance() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.stage == StagePlay && m.quarter < QuarterCount-1:
		m.quarter++
	case m.stage == StagePlay:
		m.stage = StageReview
	default:
		return m.transitionError("advance")
	}
	m.cancelPending = false
	return nil
}

func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.stage == StagePlay && m.quarter > 0:
		m.quarter--
	case m.stage == StagePlay:
		m.stage = StageSetup
	case m.stage == StageReview:
		m.stage = StagePlay
		m.quarter = QuarterCount - 1
	default:
		return m.transitionError("back")
	}
	m.cancelPending = false
	return nil
}

// SelectQuarter jumps straight to quarter i while in play.
func (m *Machine) SelectQuarter(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StagePlay {
		return m.transitionError("select quarter")
	}
	if i < 0 || i >= QuarterCount {
		return fmt.Errorf("quarter %d: %w", i, ErrInvalidQuarter)
	}
	m.quarter = i
	m.cancelPending = false
	return nil
}

// Save writes the game as finished. On a store failure the machine stays in
// review with its data untouched, so the caller can retry.
func (m *Machine) Save(ctx context.Context) error {
	m.mu.Lock()
	if m.stage != StageReview {
		err := m.transitionError("save")
		m.mu.Unlock()
		return err
	}
	m.cancelPending = false
	m.sync.Drain()

	start := m.clock.Now()
	finished := m.game.Clone()
	endedAt := start
	finished.Status = StatusFinished
	finished.EndedAt = &endedAt
	if err := m.store.Upsert(ctx, finished); err != nil {
		log.Error("Failed to save match", "gameID", m.game.ID, "error", err)
		m.synced()
		m.mu.Unlock()
		return fmt.Errorf("save game %d: %w", m.game.ID, err)
	}

	m.game = finished
	m.stage = StageSaved
	m.metrics.IncGamesSaved()
	m.metrics.ObserveSaveDuration(m.clock.Since(start).Seconds())
	log.Info("Match saved", "gameID", finished.ID, "goals", finished.TotalGoals(), "opponentGoals", finished.TotalOpponentGoals(), "result", finished.Result())
	done, onComplete := *finished.Clone(), m.onComplete
	m.mu.Unlock()

	m.sync.Close()
	if onComplete != nil {
		onComplete(done)
	}
	return nil
}

func (m *Machine) RequestCancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.terminal() {
		return m.transitionError("request cancel")
	}
	m.cancelPending = true
	return nil
}

func (m *Machine) DenyCancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cancelPending {
		return ErrCancelNotRequested
	}
	m.cancelPending = false
	return nil
}

// ConfirmCancel ends the session. A new game's record is marked cancelled; an
// edited game is restored to what it was before the session. Store failures are
// logged and do not stop the cancel.
func (m *Machine) ConfirmCancel(ctx context.Context) error {
	m.mu.Lock()
	if m.terminal() {
		err := m.transitionError("cancel")
		m.mu.Unlock()
		return err
	}
	if !m.cancelPending {
		m.mu.Unlock()
		return ErrCancelNotRequested
	}
	m.sync.Drain()

	if m.original != nil {
		if err := m.store.Upsert(ctx, m.original); err != nil {
			log.Error("Failed to restore edited match", "gameID", m.game.ID, "error", err)
		}
	} else {
		status := StatusCancelled
		if err := m.store.Update(ctx, m.game.ID, Patch{Status: &status}); err != nil {
			log.Warn("Failed to mark match cancelled", "gameID", m.game.ID, "error", err)
		}
	}

	m.game.Status = StatusCancelled
	m.stage = StageCancelled
	m.cancelPending = false
	log.Info("Match cancelled", "gameID", m.game.ID)
	m.mu.Unlock()

	m.sync.Close()
	return nil
}

// Flush waits until queued live snapshots are written.
func (m *Machine) Flush() {
	m.sync.Flush()
}

// Close stops the live sync worker without changing the stage.
func (m *Machine) Close() {
	m.sync.Close()
}

// inQuarter runs fn on the active quarter while in play, then live-syncs.
func (m *Machine) inQuarter(fn func(q *Quarter) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StagePlay {
		return fmt.Errorf("%s: %w", m.stage, ErrNotPlaying)
	}
	if err := fn(&m.game.Quarters[m.quarter]); err != nil {
		return err
	}
	m.synced()
	return nil
}

// RecordStat appends the player to the goals, assists or tackles of the active quarter.
func (m *Machine) RecordStat(field StatField, playerID int64) error {
	return m.inQuarter(func(q *Quarter) error {
		if !m.game.OnField(m.quarter, playerID) {
			return fmt.Errorf("player %d in quarter %d: %w", playerID, q.Number, ErrNotOnField)
		}
		if err := q.Append(field, playerID); err != nil {
			return err
		}
		m.metrics.IncStatRecorded(string(field))
		return nil
	})
}

// UndoLastStat removes the player's most recent entry; it does nothing if there is none.
func (m *Machine) UndoLastStat(field StatField, playerID int64) error {
	return m.inQuarter(func(q *Quarter) error {
		_, err := q.UndoLast(field, playerID)
		return err
	})
}

func (m *Machine) IncrementSaves() error {
	return m.inQuarter(func(q *Quarter) error { q.IncrementSaves(); return nil })
}

func (m *Machine) DecrementSaves() error {
	return m.inQuarter(func(q *Quarter) error { q.DecrementSaves(); return nil })
}

func (m *Machine) IncrementOpponentGoals() error {
	return m.inQuarter(func(q *Quarter) error { q.IncrementOpponentGoals(); return nil })
}

func (m *Machine) DecrementOpponentGoals() error {
	return m.inQuarter(func(q *Quarter) error { q.DecrementOpponentGoals(); return nil })
}

func (m *Machine) SetGoalkeeper(playerID int64) error {
	return m.inQuarter(func(q *Quarter) error {
		if !m.game.IsPresent(playerID) {
			return fmt.Errorf("player %d: %w", playerID, ErrNotPresent)
		}
		q.SetGoalkeeper(playerID)
		return nil
	})
}

func (m *Machine) ClearGoalkeeper() error {
	return m.inQuarter(func(q *Quarter) error { q.ClearGoalkeeper(); return nil })
}

// Substitute swaps outID off the field for inID, who must be on the bench.
func (m *Machine) Substitute(outID, inID int64) error {
	return m.inQuarter(func(q *Quarter) error {
		if !m.game.IsPresent(outID) {
			return fmt.Errorf("player %d: %w", outID, ErrNotOnField)
		}
		if !m.game.IsPresent(inID) {
			return fmt.Errorf("player %d: %w", inID, ErrNotPresent)
		}
		return q.Substitute(outID, inID)
	})
}

func (m *Machine) ToggleSubstitute(playerID int64) error {
	return m.inQuarter(func(q *Quarter) error {
		if !m.game.IsPresent(playerID) {
			return fmt.Errorf("player %d: %w", playerID, ErrNotPresent)
		}
		q.ToggleSubstitute(playerID)
		return nil
	})
}

// inSetup runs fn on the game while in setup.
func (m *Machine) inSetup(fn func(g *Game)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage != StageSetup {
		return fmt.Errorf("%s: %w", m.stage, ErrNotInSetup)
	}
	fn(m.game)
	return nil
}

func (m *Machine) SetOpponent(name string) error {
	return m.inSetup(func(g *Game) { g.Opponent = name })
}

func (m *Machine) SetAway(away bool) error {
	return m.inSetup(func(g *Game) { g.IsAway = away })
}

// SetDate moves the game to another day and keeps its time of day.
func (m *Machine) SetDate(day time.Time) error {
	if day.IsZero() {
		return ErrInvalidDate
	}
	return m.inSetup(func(g *Game) {
		cur := g.Date.In(day.Location())
		g.Date = time.Date(day.Year(), day.Month(), day.Day(), cur.Hour(), cur.Minute(), cur.Second(), cur.Nanosecond(), day.Location())
	})
}

// TogglePlayerPresent adds or removes a player. A player who leaves is taken
// off every quarter's bench too.
func (m *Machine) TogglePlayerPresent(playerID int64) error {
	return m.inSetup(func(g *Game) {
		g.PlayersPresent = toggle(g.PlayersPresent, playerID)
		if g.IsPresent(playerID) {
			return
		}
		for i := range g.Quarters {
			g.Quarters[i].Substitutes = slices.DeleteFunc(g.Quarters[i].Substitutes, func(id int64) bool { return id == playerID })
		}
	})
}

func (m *Machine) ToggleParentPresent(parentID int64) error {
	return m.inSetup(func(g *Game) { g.ParentsPresent = toggle(g.ParentsPresent, parentID) })
}

// SetNotes is allowed in every stage before the match is saved or cancelled.
func (m *Machine) SetNotes(notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.terminal() {
		return ErrTerminal
	}
	m.game.Notes = notes
	m.synced()
	return nil
}
