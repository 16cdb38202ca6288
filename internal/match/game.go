package match

import (
	"fmt"
	"slices"
	"time"
)

// NewGame returns a game in setup with four empty quarters.
func NewGame(id int64, date time.Time, playersPresent []int64) *Game {
	g := &Game{
		ID:             id,
		Date:           date,
		PlayersPresent: append([]int64{}, playersPresent...),
		ParentsPresent: []int64{},
		Status:         StatusSetup,
	}
	for i := range g.Quarters {
		g.Quarters[i] = newQuarter(i + 1)
	}
	return g
}

func newQuarter(number int) Quarter {
	return Quarter{
		Number:        number,
		Goals:         []int64{},
		Assists:       []int64{},
		Tackles:       []int64{},
		Substitutes:   []int64{},
		Substitutions: []Substitution{},
	}
}

// Normalize fills in defaults for fields a decoded record may lack.
func (g *Game) Normalize() {
	for i := range g.Quarters {
		q := &g.Quarters[i]
		if q.Number == 0 {
			q.Number = i + 1
		}
		if q.Goals == nil {
			q.Goals = []int64{}
		}
		if q.Assists == nil {
			q.Assists = []int64{}
		}
		if q.Tackles == nil {
			q.Tackles = []int64{}
		}
		if q.Substitutes == nil {
			q.Substitutes = []int64{}
		}
		if q.Substitutions == nil {
			q.Substitutions = []Substitution{}
		}
	}
	if g.PlayersPresent == nil {
		g.PlayersPresent = []int64{}
	}
	if g.ParentsPresent == nil {
		g.ParentsPresent = []int64{}
	}
}

// CheckQuarters verifies the quarters are numbered 1 to 4 in order.
func (g *Game) CheckQuarters() error {
	for i, q := range g.Quarters {
		if q.Number != i+1 {
			return fmt.Errorf("quarter %d has number %d: %w", i, q.Number, ErrInvalidQuarters)
		}
	}
	return nil
}

// Clone returns a deep copy of the game.
func (g *Game) Clone() *Game {
	c := *g
	c.PlayersPresent = slices.Clone(g.PlayersPresent)
	c.ParentsPresent = slices.Clone(g.ParentsPresent)
	if g.EndedAt != nil {
		ended := *g.EndedAt
		c.EndedAt = &ended
	}
	for i, q := range g.Quarters {
		c.Quarters[i] = q.clone()
	}
	return &c
}

func (q Quarter) clone() Quarter {
	c := q
	c.Goals = slices.Clone(q.Goals)
	c.Assists = slices.Clone(q.Assists)
	c.Tackles = slices.Clone(q.Tackles)
	c.Substitutes = slices.Clone(q.Substitutes)
	c.Substitutions = slices.Clone(q.Substitutions)
	if q.Goalkeeper != nil {
		keeper := *q.Goalkeeper
		c.Goalkeeper = &keeper
	}
	return c
}

func (g *Game) TotalGoals() int {
	total := 0
	for _, q := range g.Quarters {
		total += len(q.Goals)
	}
	return total
}

func (g *Game) TotalOpponentGoals() int {
	total := 0
	for _, q := range g.Quarters {
		total += q.OpponentGoals
	}
	return total
}

// Result compares the team's goals with the opponent's.
func (g *Game) Result() Result {
	ours, theirs := g.TotalGoals(), g.TotalOpponentGoals()
	switch {
	case ours > theirs:
		return Win
	case ours < theirs:
		return Loss
	default:
		return Draw
	}
}

func (g *Game) IsPresent(playerID int64) bool {
	return slices.Contains(g.PlayersPresent, playerID)
}

// OnField reports whether the player is present and not a substitute in quarter i.
func (g *Game) OnField(i int, playerID int64) bool {
	return g.IsPresent(playerID) && !g.Quarters[i].IsSubstitute(playerID)
}

// ParseStatField converts a field name into a StatField.
func ParseStatField(s string) (StatField, error) {
	switch f := StatField(s); f {
	case FieldGoals, FieldAssists, FieldTackles:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownField)
}

func (q *Quarter) sequence(field StatField) (*[]int64, error) {
	switch field {
	case FieldGoals:
		return &q.Goals, nil
	case FieldAssists:
		return &q.Assists, nil
	case FieldTackles:
		return &q.Tackles, nil
	}
	return nil, fmt.Errorf("%q: %w", field, ErrUnknownField)
}

// Count returns how often the player occurs in the given sequence.
func (q *Quarter) Count(field StatField, playerID int64) int {
	seq, err := q.sequence(field)
	if err != nil {
		return 0
	}
	n := 0
	for _, id := range *seq {
		if id == playerID {
			n++
		}
	}
	return n
}

func (q *Quarter) Append(field StatField, playerID int64) error {
	seq, err := q.sequence(field)
	if err != nil {
		return err
	}
	*seq = append(*seq, playerID)
	return nil
}

// UndoLast removes the most recent occurrence of the player from the sequence.
// It reports whether anything was removed.
func (q *Quarter) UndoLast(field StatField, playerID int64) (bool, error) {
	seq, err := q.sequence(field)
	if err != nil {
		return false, err
	}
	for i := len(*seq) - 1; i >= 0; i-- {
		if (*seq)[i] == playerID {
			*seq = slices.Delete(*seq, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (q *Quarter) IncrementSaves() { q.Saves++ }

func (q *Quarter) DecrementSaves() {
	if q.Saves > 0 {
		q.Saves--
	}
}

func (q *Quarter) IncrementOpponentGoals() { q.OpponentGoals++ }

func (q *Quarter) DecrementOpponentGoals() {
	if q.OpponentGoals > 0 {
		q.OpponentGoals--
	}
}

func (q *Quarter) SetGoalkeeper(playerID int64) {
	q.Goalkeeper = &playerID
}

func (q *Quarter) ClearGoalkeeper() {
	q.Goalkeeper = nil
}

func (q *Quarter) IsSubstitute(playerID int64) bool {
	return slices.Contains(q.Substitutes, playerID)
}

// ToggleSubstitute benches or unbenches a player without touching the audit trail.
func (q *Quarter) ToggleSubstitute(playerID int64) {
	if i := slices.Index(q.Substitutes, playerID); i >= 0 {
		q.Substitutes = slices.Delete(q.Substitutes, i, i+1)
		return
	}
	q.Substitutes = append(q.Substitutes, playerID)
}

// Substitute brings inID on for outID and records the swap.
func (q *Quarter) Substitute(outID, inID int64) error {
	i := slices.Index(q.Substitutes, inID)
	if i < 0 {
		return fmt.Errorf("player %d: %w", inID, ErrNotSubstitute)
	}
	if q.IsSubstitute(outID) {
		return fmt.Errorf("player %d: %w", outID, ErrNotOnField)
	}
	q.Substitutes = slices.Delete(q.Substitutes, i, i+1)
	q.Substitutes = append(q.Substitutes, outID)
	q.Substitutions = append(q.Substitutions, Substitution{OutID: outID, InID: inID})
	return nil
}

func toggle(set []int64, id int64) []int64 {
	if i := slices.Index(set, id); i >= 0 {
		return slices.Delete(set, i, i+1)
	}
	return append(set, id)
}
