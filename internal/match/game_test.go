package match_test

import (
	"testing"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame_HasFourNumberedQuarters(t *testing.T) {
	g := match.NewGame(1, time.Now(), []int64{1, 2, 3})

	require.Len(t, g.Quarters, match.QuarterCount)
	for i, q := range g.Quarters {
		assert.Equal(t, i+1, q.Number)
		assert.Empty(t, q.Goals)
		assert.NotNil(t, q.Goals)
		assert.Zero(t, q.Saves)
		assert.Nil(t, q.Goalkeeper)
	}
	assert.NoError(t, g.CheckQuarters())
	assert.Equal(t, match.StatusSetup, g.Status)
}

func TestCheckQuarters_RejectsMisnumbered(t *testing.T) {
	g := match.NewGame(1, time.Now(), nil)
	g.Quarters[2].Number = 4
	assert.ErrorIs(t, g.CheckQuarters(), match.ErrInvalidQuarters)
}

func TestNormalize_FillsDecodedGaps(t *testing.T) {
	g := &match.Game{ID: 1}
	g.Normalize()

	assert.NoError(t, g.CheckQuarters())
	assert.NotNil(t, g.PlayersPresent)
	assert.NotNil(t, g.Quarters[3].Substitutions)
}

func TestUndoLast_RemovesMostRecentOccurrence(t *testing.T) {
	q := match.NewGame(1, time.Now(), nil).Quarters[0]
	for _, id := range []int64{1, 2, 1, 3} {
		require.NoError(t, q.Append(match.FieldGoals, id))
	}
	before := append([]int64{}, q.Goals...)

	require.NoError(t, q.Append(match.FieldGoals, 2))
	removed, err := q.UndoLast(match.FieldGoals, 2)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, before, q.Goals)

	removed, err = q.UndoLast(match.FieldGoals, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []int64{1, 2, 3}, q.Goals)

	removed, err = q.UndoLast(match.FieldGoals, 9)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []int64{1, 2, 3}, q.Goals)
	assert.Equal(t, 1, q.Count(match.FieldGoals, 1))
}

func TestCounters_FloorAtZero(t *testing.T) {
	q := match.NewGame(1, time.Now(), nil).Quarters[0]

	q.DecrementSaves()
	q.DecrementOpponentGoals()
	assert.Zero(t, q.Saves)
	assert.Zero(t, q.OpponentGoals)

	q.IncrementSaves()
	q.DecrementSaves()
	q.DecrementSaves()
	assert.Zero(t, q.Saves)
}

func TestQuarter_Substitute(t *testing.T) {
	q := match.NewGame(1, time.Now(), []int64{1, 2, 3}).Quarters[0]

	err := q.Substitute(1, 2)
	assert.ErrorIs(t, err, match.ErrNotSubstitute)

	q.ToggleSubstitute(2)
	require.NoError(t, q.Substitute(1, 2))
	assert.True(t, q.IsSubstitute(1))
	assert.False(t, q.IsSubstitute(2))
	assert.Equal(t, []match.Substitution{{OutID: 1, InID: 2}}, q.Substitutions)

	q.ToggleSubstitute(3)
	err = q.Substitute(1, 3)
	assert.ErrorIs(t, err, match.ErrNotOnField)
}

func TestResult(t *testing.T) {
	g := match.NewGame(1, time.Now(), []int64{1})
	assert.Equal(t, match.Draw, g.Result())

	g.Quarters[1].Goals = []int64{1, 1}
	g.Quarters[3].OpponentGoals = 1
	assert.Equal(t, 2, g.TotalGoals())
	assert.Equal(t, 1, g.TotalOpponentGoals())
	assert.Equal(t, match.Win, g.Result())

	g.Quarters[0].OpponentGoals = 2
	assert.Equal(t, match.Loss, g.Result())
}

func TestClone_IsDeep(t *testing.T) {
	g := match.NewGame(1, time.Now(), []int64{1, 2})
	g.Quarters[0].SetGoalkeeper(2)
	c := g.Clone()

	c.Quarters[0].Goals = append(c.Quarters[0].Goals, 1)
	*c.Quarters[0].Goalkeeper = 1
	c.PlayersPresent[0] = 9

	assert.Empty(t, g.Quarters[0].Goals)
	assert.Equal(t, int64(2), *g.Quarters[0].Goalkeeper)
	assert.Equal(t, int64(1), g.PlayersPresent[0])
}

func TestParseStatField(t *testing.T) {
	f, err := match.ParseStatField("tackles")
	require.NoError(t, err)
	assert.Equal(t, match.FieldTackles, f)

	_, err = match.ParseStatField("corners")
	assert.ErrorIs(t, err, match.ErrUnknownField)
}
