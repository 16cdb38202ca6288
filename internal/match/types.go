package match

import (
	"errors"
	"time"
)

// QuarterCount is the fixed number of quarters in a match.
const QuarterCount = 4

var (
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrNotPlaying         = errors.New("match is not in play")
	ErrNotInSetup         = errors.New("match is not in setup")
	ErrTerminal           = errors.New("match is already saved or cancelled")
	ErrNotOnField         = errors.New("player is not on the field")
	ErrNotSubstitute      = errors.New("player is not a substitute")
	ErrNotPresent         = errors.New("player is not present")
	ErrCancelNotRequested = errors.New("cancel was not requested")
	ErrInvalidQuarter     = errors.New("quarter index out of range")
	ErrUnknownField       = errors.New("unknown stat field")
	ErrUnknownAction      = errors.New("unknown action")
	ErrEmptyRoster        = errors.New("roster has no players")
	ErrSessionNotFound    = errors.New("match session not found")
	ErrInvalidQuarters    = errors.New("game must have exactly 4 quarters numbered 1 to 4")
	ErrInvalidDate        = errors.New("game date is missing")
)

// Status is the lifecycle marker stored with a game record.
type Status string

const (
	StatusSetup     Status = "setup"
	StatusActive    Status = "active"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// StatField names one of the per-player event sequences of a quarter.
type StatField string

const (
	FieldGoals   StatField = "goals"
	FieldAssists StatField = "assists"
	FieldTackles StatField = "tackles"
)

// Result is the outcome of a game from the team's point of view.
type Result string

const (
	Win  Result = "W"
	Draw Result = "D"
	Loss Result = "L"
)

type Substitution struct {
	OutID int64 `json:"outId"`
	InID  int64 `json:"inId"`
}

// Quarter holds everything recorded during one quarter. A player's goal, assist or
// tackle count is the number of times the player occurs in the matching sequence.
type Quarter struct {
	Number        int            `json:"number"`
	Goals         []int64        `json:"goals"`
	Assists       []int64        `json:"assists"`
	Tackles       []int64        `json:"tackles"`
	Saves         int            `json:"saves"`
	Goalkeeper    *int64         `json:"goalkeeper"`
	OpponentGoals int            `json:"opponentGoals"`
	Substitutes   []int64        `json:"substitutes"`
	Substitutions []Substitution `json:"substitutions"`
}

type Game struct {
	ID             int64                 `json:"id"`
	Date           time.Time             `json:"date"`
	Quarters       [QuarterCount]Quarter `json:"quarters"`
	Opponent       string                `json:"opponent"`
	IsAway         bool                  `json:"isAway"`
	PlayersPresent []int64               `json:"playersPresent"`
	ParentsPresent []int64               `json:"parentsPresent"`
	Notes          string                `json:"notes"`
	Status         Status                `json:"status"`
	EndedAt        *time.Time            `json:"endedAt,omitempty"`
}

// Patch is a partial game update. Only non-nil fields are written.
type Patch struct {
	Status   *Status    `json:"status,omitempty"`
	EndedAt  *time.Time `json:"endedAt,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Opponent *string    `json:"opponent,omitempty"`
	IsAway   *bool      `json:"isAway,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}
