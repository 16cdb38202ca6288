package match

import (
	"context"
	"fmt"
	"time"
)

// Action names a command a client can send to a running match.
type Action string

const (
	ActionStart                 Action = "start"
	ActionAdvance               Action = "advance"
	ActionBack                  Action = "back"
	ActionSelectQuarter         Action = "select-quarter"
	ActionSave                  Action = "save"
	ActionRequestCancel         Action = "request-cancel"
	ActionConfirmCancel         Action = "confirm-cancel"
	ActionDenyCancel            Action = "deny-cancel"
	ActionRecordStat            Action = "record-stat"
	ActionUndoStat              Action = "undo-stat"
	ActionIncrementSave         Action = "increment-save"
	ActionDecrementSave         Action = "decrement-save"
	ActionIncrementOpponentGoal Action = "increment-opponent-goal"
	ActionDecrementOpponentGoal Action = "decrement-opponent-goal"
	ActionSetGoalkeeper         Action = "set-goalkeeper"
	ActionClearGoalkeeper       Action = "clear-goalkeeper"
	ActionSubstitute            Action = "substitute"
	ActionToggleSubstitute      Action = "toggle-substitute"
	ActionSetOpponent           Action = "set-opponent"
	ActionSetAway               Action = "set-away"
	ActionSetDate               Action = "set-date"
	ActionTogglePlayer          Action = "toggle-player"
	ActionToggleParent          Action = "toggle-parent"
	ActionSetNotes              Action = "set-notes"
)

// Command is one client gesture. Only the fields its Action needs are read.
type Command struct {
	Action   Action    `json:"action"`
	Field    StatField `json:"field,omitempty"`
	PlayerID int64     `json:"playerId,omitempty"`
	ParentID int64     `json:"parentId,omitempty"`
	OutID    int64     `json:"outId,omitempty"`
	InID     int64     `json:"inId,omitempty"`
	Quarter  int       `json:"quarter,omitempty"`
	Text     string    `json:"text,omitempty"`
	Away     bool      `json:"away,omitempty"`
	Date     time.Time `json:"date,omitempty"`
}

// Apply dispatches a command to the matching machine operation.
func (m *Machine) Apply(ctx context.Context, cmd Command) error {
	switch cmd.Action {
	case ActionStart:
		return m.Start()
	case ActionAdvance:
		return m.Advance()
	case ActionBack:
		return m.Back()
	case ActionSelectQuarter:
		return m.SelectQuarter(cmd.Quarter)
	case ActionSave:
		return m.Save(ctx)
	case ActionRequestCancel:
		return m.RequestCancel()
	case ActionConfirmCancel:
		return m.ConfirmCancel(ctx)
	case ActionDenyCancel:
		return m.DenyCancel()
	case ActionRecordStat:
		field, err := ParseStatField(string(cmd.Field))
		if err != nil {
			return err
		}
		return m.RecordStat(field, cmd.PlayerID)
	case ActionUndoStat:
		field, err := ParseStatField(string(cmd.Field))
		if err != nil {
			return err
		}
		return m.UndoLastStat(field, cmd.PlayerID)
	case ActionIncrementSave:
		return m.IncrementSaves()
	case ActionDecrementSave:
		return m.DecrementSaves()
	case ActionIncrementOpponentGoal:
		return m.IncrementOpponentGoals()
	case ActionDecrementOpponentGoal:
		return m.DecrementOpponentGoals()
	case ActionSetGoalkeeper:
		return m.SetGoalkeeper(cmd.PlayerID)
	case ActionClearGoalkeeper:
		return m.ClearGoalkeeper()
	case ActionSubstitute:
		return m.Substitute(cmd.OutID, cmd.InID)
	case ActionToggleSubstitute:
		return m.ToggleSubstitute(cmd.PlayerID)
	case ActionSetOpponent:
		return m.SetOpponent(cmd.Text)
	case ActionSetAway:
		return m.SetAway(cmd.Away)
	case ActionSetDate:
		return m.SetDate(cmd.Date)
	case ActionTogglePlayer:
		return m.TogglePlayerPresent(cmd.PlayerID)
	case ActionToggleParent:
		return m.ToggleParentPresent(cmd.ParentID)
	case ActionSetNotes:
		return m.SetNotes(cmd.Text)
	}
	return fmt.Errorf("%q: %w", cmd.Action, ErrUnknownAction)
}
