package match_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"
)

type MachineSuite struct {
	suite.Suite
	ctx       context.Context
	store     *fakeStore
	clock     *clockwork.FakeClock
	metrics   *metrics.Mock
	completed []match.Game
	m         *match.Machine
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineSuite))
}

func (s *MachineSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newFakeStore()
	s.clock = clockwork.NewFakeClockAt(time.Date(2025, 3, 8, 10, 30, 0, 0, time.UTC))
	s.metrics = metrics.NewMock()
	s.completed = nil
	game := match.NewGame(100, s.clock.Now(), []int64{1, 2, 3})
	s.m = match.NewMachine(game, s.options())
}

func (s *MachineSuite) TearDownTest() {
	s.m.Close()
}

func (s *MachineSuite) options() match.Options {
	return match.Options{
		Store:      s.store,
		Clock:      s.clock,
		Metrics:    s.metrics,
		OnComplete: func(g match.Game) { s.completed = append(s.completed, g) },
	}
}

func (s *MachineSuite) toReview() {
	s.Require().NoError(s.m.Start())
	for i := 0; i < match.QuarterCount; i++ {
		s.Require().NoError(s.m.Advance())
	}
	s.Require().Equal(match.StageReview, s.m.State().Stage)
}

func (s *MachineSuite) TestFiveForwardTransitionsReachReview() {
	s.Equal(match.State{Stage: match.StageSetup}, s.m.State())

	s.Require().NoError(s.m.Start())
	s.Equal(match.State{Stage: match.StagePlay, Quarter: 0}, s.m.State())
	for i := 1; i < match.QuarterCount; i++ {
		s.Require().NoError(s.m.Advance())
		s.Equal(match.State{Stage: match.StagePlay, Quarter: i}, s.m.State())
	}
	s.Require().NoError(s.m.Advance())
	s.Equal(match.StageReview, s.m.State().Stage)

	s.ErrorIs(s.m.Advance(), match.ErrInvalidTransition)
	s.ErrorIs(s.m.Start(), match.ErrInvalidTransition)
}

func (s *MachineSuite) TestBackMirrorsAdvance() {
	s.toReview()

	s.Require().NoError(s.m.Back())
	s.Equal(match.State{Stage: match.StagePlay, Quarter: 3}, s.m.State())
	for i := 2; i >= 0; i-- {
		s.Require().NoError(s.m.Back())
		s.Equal(i, s.m.State().Quarter)
	}
	s.Require().NoError(s.m.Back())
	s.Equal(match.StageSetup, s.m.State().Stage)
	s.ErrorIs(s.m.Back(), match.ErrInvalidTransition)
}

func (s *MachineSuite) TestSelectQuarter() {
	s.ErrorIs(s.m.SelectQuarter(2), match.ErrInvalidTransition)

	s.Require().NoError(s.m.Start())
	s.Require().NoError(s.m.SelectQuarter(2))
	s.Equal(2, s.m.State().Quarter)
	s.ErrorIs(s.m.SelectQuarter(4), match.ErrInvalidQuarter)
}

func (s *MachineSuite) TestStartMarksActiveAndSyncs() {
	s.Require().NoError(s.m.Start())
	s.m.Flush()

	stored, ok := s.store.stored(100)
	s.Require().True(ok)
	s.Equal(match.StatusActive, stored.Status)
	s.Equal(1, s.metrics.LiveSyncSent())
}

func (s *MachineSuite) TestScenario() {
	s.Require().NoError(s.m.Start())
	s.Require().NoError(s.m.RecordStat(match.FieldGoals, 1))
	s.Require().NoError(s.m.RecordStat(match.FieldAssists, 2))
	s.Require().NoError(s.m.RecordStat(match.FieldGoals, 1))
	s.Require().NoError(s.m.IncrementOpponentGoals())

	g := s.m.Game()
	s.Equal([]int64{1, 1}, g.Quarters[0].Goals)
	s.Equal([]int64{2}, g.Quarters[0].Assists)
	s.Equal(1, g.Quarters[0].OpponentGoals)
	s.Equal(2, g.TotalGoals())
	s.Equal(1, g.TotalOpponentGoals())
	s.Equal(2, s.metrics.StatsRecorded("goals"))

	s.m.Flush()
	last := s.store.lastUpsert()
	s.Equal(match.StatusActive, last.Status)
	s.Equal([]int64{1, 1}, last.Quarters[0].Goals)
	s.Equal(1, last.Quarters[0].OpponentGoals)
}

func (s *MachineSuite) TestQuarterOperationsRequirePlay() {
	s.ErrorIs(s.m.RecordStat(match.FieldGoals, 1), match.ErrNotPlaying)
	s.ErrorIs(s.m.IncrementSaves(), match.ErrNotPlaying)

	s.toReview()
	s.ErrorIs(s.m.DecrementOpponentGoals(), match.ErrNotPlaying)
}

func (s *MachineSuite) TestStatsOnlyForPlayersOnField() {
	s.Require().NoError(s.m.Start())

	s.ErrorIs(s.m.RecordStat(match.FieldGoals, 42), match.ErrNotOnField)

	s.Require().NoError(s.m.ToggleSubstitute(3))
	s.ErrorIs(s.m.RecordStat(match.FieldTackles, 3), match.ErrNotOnField)

	s.Require().NoError(s.m.Substitute(1, 3))
	s.ErrorIs(s.m.RecordStat(match.FieldGoals, 1), match.ErrNotOnField)
	s.NoError(s.m.RecordStat(match.FieldGoals, 3))

	g := s.m.Game()
	s.Equal([]match.Substitution{{OutID: 1, InID: 3}}, g.Quarters[0].Substitutions)
	s.Equal([]int64{1}, g.Quarters[0].Substitutes)

	// Player 1 is only benched for the first quarter.
	s.Require().NoError(s.m.Advance())
	s.NoError(s.m.RecordStat(match.FieldGoals, 1))
}

func (s *MachineSuite) TestSubstituteNeedsBenchedPlayer() {
	s.Require().NoError(s.m.Start())
	s.ErrorIs(s.m.Substitute(1, 2), match.ErrNotSubstitute)
	s.ErrorIs(s.m.Substitute(42, 2), match.ErrNotOnField)
}

func (s *MachineSuite) TestSubstituteRejectsAbsentPlayer() {
	s.Require().NoError(s.m.Start())
	s.Require().NoError(s.m.ToggleSubstitute(3))
	s.Require().NoError(s.m.Back())
	s.Require().NoError(s.m.TogglePlayerPresent(3))

	g := s.m.Game()
	s.Equal([]int64{1, 2}, g.PlayersPresent)
	for _, q := range g.Quarters {
		s.NotContains(q.Substitutes, int64(3))
	}

	s.Require().NoError(s.m.Start())
	s.ErrorIs(s.m.Substitute(1, 3), match.ErrNotPresent)
	q := s.m.Game().Quarters[0]
	s.Empty(q.Substitutions)
	s.Empty(q.Substitutes)
	s.NoError(s.m.RecordStat(match.FieldGoals, 1))
}

func (s *MachineSuite) TestUndoAndFloors() {
	s.Require().NoError(s.m.Start())
	s.Require().NoError(s.m.RecordStat(match.FieldTackles, 2))
	s.Require().NoError(s.m.UndoLastStat(match.FieldTackles, 2))
	s.Require().NoError(s.m.UndoLastStat(match.FieldTackles, 2))
	s.Require().NoError(s.m.DecrementSaves())
	s.Require().NoError(s.m.DecrementOpponentGoals())

	q := s.m.Game().Quarters[0]
	s.Empty(q.Tackles)
	s.Zero(q.Saves)
	s.Zero(q.OpponentGoals)
}

func (s *MachineSuite) TestGoalkeeper() {
	s.Require().NoError(s.m.Start())
	s.Require().NoError(s.m.SetGoalkeeper(1))
	s.Require().NoError(s.m.SetGoalkeeper(2))
	s.Require().NoError(s.m.IncrementSaves())
	s.Require().NoError(s.m.IncrementSaves())

	q := s.m.Game().Quarters[0]
	s.Require().NotNil(q.Goalkeeper)
	s.Equal(int64(2), *q.Goalkeeper)
	s.Equal(2, q.Saves)

	s.ErrorIs(s.m.SetGoalkeeper(42), match.ErrNotPresent)
	s.Require().NoError(s.m.ClearGoalkeeper())
	s.Nil(s.m.Game().Quarters[0].Goalkeeper)
}

func (s *MachineSuite) TestSetupOperations() {
	s.Require().NoError(s.m.SetOpponent("KFC Peer"))
	s.Require().NoError(s.m.SetAway(true))
	s.Require().NoError(s.m.TogglePlayerPresent(3))
	s.Require().NoError(s.m.ToggleParentPresent(7))
	s.Require().NoError(s.m.SetDate(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))

	g := s.m.Game()
	s.Equal("KFC Peer", g.Opponent)
	s.True(g.IsAway)
	s.Equal([]int64{1, 2}, g.PlayersPresent)
	s.Equal([]int64{7}, g.ParentsPresent)
	s.Equal(time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC), g.Date)

	s.ErrorIs(s.m.SetDate(time.Time{}), match.ErrInvalidDate)
	s.ErrorIs(s.m.Apply(s.ctx, match.Command{Action: match.ActionSetDate}), match.ErrInvalidDate)
	s.Equal(time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC), s.m.Game().Date)

	s.Require().NoError(s.m.Start())
	s.ErrorIs(s.m.SetOpponent("Other"), match.ErrNotInSetup)
	s.NoError(s.m.SetNotes("Windy"))
	s.Equal("Windy", s.m.Game().Notes)
}

func (s *MachineSuite) TestSaveWritesFinished() {
	s.toReview()
	s.Require().NoError(s.m.SetNotes("Good game"))

	s.Require().NoError(s.m.Save(s.ctx))

	s.Equal(match.StageSaved, s.m.State().Stage)
	stored, ok := s.store.stored(100)
	s.Require().True(ok)
	s.Equal(match.StatusFinished, stored.Status)
	s.Require().NotNil(stored.EndedAt)
	s.True(stored.EndedAt.Equal(s.clock.Now()))
	s.Equal("Good game", stored.Notes)

	s.Equal(match.StatusFinished, s.store.lastUpsert().Status)
	s.Require().Len(s.completed, 1)
	s.Equal(int64(100), s.completed[0].ID)
	s.Equal(1, s.metrics.GamesSaved())

	s.ErrorIs(s.m.Save(s.ctx), match.ErrInvalidTransition)
	s.ErrorIs(s.m.RequestCancel(), match.ErrInvalidTransition)
	s.ErrorIs(s.m.SetNotes("late"), match.ErrTerminal)
}

func (s *MachineSuite) TestSaveOnlyFromReview() {
	s.ErrorIs(s.m.Save(s.ctx), match.ErrInvalidTransition)
	s.Require().NoError(s.m.Start())
	s.ErrorIs(s.m.Save(s.ctx), match.ErrInvalidTransition)
	s.Empty(s.completed)
}

func (s *MachineSuite) TestSaveFailureKeepsReview() {
	boom := errors.New("network down")
	s.Require().NoError(s.m.Start())
	s.Require().NoError(s.m.RecordStat(match.FieldGoals, 2))
	s.Require().NoError(s.m.IncrementOpponentGoals())
	for i := 0; i < match.QuarterCount; i++ {
		s.Require().NoError(s.m.Advance())
	}
	s.m.Flush()
	before := s.m.Game()

	s.store.mu.Lock()
	s.store.UpsertFunc = func(g *match.Game) error {
		if g.Status == match.StatusFinished {
			return boom
		}
		return nil
	}
	s.store.mu.Unlock()

	err := s.m.Save(s.ctx)
	s.ErrorIs(err, boom)
	s.Equal(match.StageReview, s.m.State().Stage)
	s.Equal(before, s.m.Game())
	s.Empty(s.completed)

	// Retry once the store is back.
	s.store.mu.Lock()
	s.store.UpsertFunc = nil
	s.store.mu.Unlock()
	s.Require().NoError(s.m.Save(s.ctx))
	s.Equal(match.StageSaved, s.m.State().Stage)
	stored, _ := s.store.stored(100)
	s.Equal(match.StatusFinished, stored.Status)
	s.Equal([]int64{2}, stored.Quarters[0].Goals)
}

func (s *MachineSuite) TestLiveSyncFailureIsSwallowed() {
	s.store.UpsertFunc = func(*match.Game) error { return errors.New("offline") }

	s.Require().NoError(s.m.Start())
	s.Require().NoError(s.m.RecordStat(match.FieldGoals, 1))
	s.m.Flush()

	s.GreaterOrEqual(s.metrics.LiveSyncFailed(), 1)
	s.Equal([]int64{1}, s.m.Game().Quarters[0].Goals)
}

func (s *MachineSuite) TestLiveSyncEndsWithNewestSnapshot() {
	s.Require().NoError(s.m.Start())
	for i := 0; i < 50; i++ {
		s.Require().NoError(s.m.RecordStat(match.FieldGoals, 1))
	}
	s.m.Flush()

	s.Len(s.store.lastUpsert().Quarters[0].Goals, 50)
	s.LessOrEqual(s.store.upsertCount(), 51)
}

func (s *MachineSuite) TestCancelNeedsConfirmation() {
	s.ErrorIs(s.m.ConfirmCancel(s.ctx), match.ErrCancelNotRequested)
	s.ErrorIs(s.m.DenyCancel(), match.ErrCancelNotRequested)

	s.Require().NoError(s.m.RequestCancel())
	s.True(s.m.State().CancelPending)
	s.Require().NoError(s.m.DenyCancel())
	s.False(s.m.State().CancelPending)
	s.Equal(match.StageSetup, s.m.State().Stage)

	s.Require().NoError(s.m.RequestCancel())
	s.Require().NoError(s.m.Start())
	s.False(s.m.State().CancelPending)
	s.ErrorIs(s.m.ConfirmCancel(s.ctx), match.ErrCancelNotRequested)
}

func (s *MachineSuite) TestConfirmCancelMarksRecordCancelled() {
	s.Require().NoError(s.m.Start())
	s.m.Flush()
	s.Require().NoError(s.m.RequestCancel())
	s.Require().NoError(s.m.ConfirmCancel(s.ctx))

	s.Equal(match.StageCancelled, s.m.State().Stage)
	stored, _ := s.store.stored(100)
	s.Equal(match.StatusCancelled, stored.Status)
	s.Empty(s.completed)
	s.ErrorIs(s.m.Start(), match.ErrInvalidTransition)
}

func (s *MachineSuite) TestConfirmCancelWithoutRecordStillCancels() {
	s.Require().NoError(s.m.RequestCancel())
	s.Require().NoError(s.m.ConfirmCancel(s.ctx))

	s.Equal(match.StageCancelled, s.m.State().Stage)
	s.Len(s.store.patches(), 1)
	_, ok := s.store.stored(100)
	s.False(ok)
}

func (s *MachineSuite) TestCancelledEditRestoresOriginal() {
	s.toReview()
	s.Require().NoError(s.m.Save(s.ctx))
	saved, _ := s.store.stored(100)

	edit := match.Reopen(saved, s.options())
	defer edit.Close()
	s.Require().NoError(edit.Start())
	s.Require().NoError(edit.RecordStat(match.FieldGoals, 2))
	edit.Flush()
	live, _ := s.store.stored(100)
	s.Equal(match.StatusActive, live.Status)

	s.Require().NoError(edit.RequestCancel())
	s.Require().NoError(edit.ConfirmCancel(s.ctx))

	restored, _ := s.store.stored(100)
	s.Equal(match.StatusFinished, restored.Status)
	s.Empty(restored.Quarters[0].Goals)
}

func (s *MachineSuite) TestEditKeepsSubstitutionAudit() {
	s.Require().NoError(s.m.Start())
	s.Require().NoError(s.m.ToggleSubstitute(3))
	s.Require().NoError(s.m.Substitute(1, 3))
	for i := 0; i < match.QuarterCount; i++ {
		s.Require().NoError(s.m.Advance())
	}
	s.Require().NoError(s.m.Save(s.ctx))
	saved, _ := s.store.stored(100)

	edit := match.Reopen(saved, s.options())
	defer edit.Close()
	s.Equal([]match.Substitution{{OutID: 1, InID: 3}}, edit.Game().Quarters[0].Substitutions)
}

func (s *MachineSuite) TestRunsWithoutMetrics() {
	m := match.NewMachine(match.NewGame(200, s.clock.Now(), []int64{1}), match.Options{Store: s.store, Clock: s.clock})
	defer m.Close()
	s.Require().NoError(m.Start())
	s.NoError(m.RecordStat(match.FieldGoals, 1))
}

func (s *MachineSuite) TestApplyDispatches() {
	s.Require().NoError(s.m.Apply(s.ctx, match.Command{Action: match.ActionSetOpponent, Text: "Lommel"}))
	s.Require().NoError(s.m.Apply(s.ctx, match.Command{Action: match.ActionStart}))
	s.Require().NoError(s.m.Apply(s.ctx, match.Command{Action: match.ActionRecordStat, Field: match.FieldGoals, PlayerID: 2}))
	s.Require().NoError(s.m.Apply(s.ctx, match.Command{Action: match.ActionIncrementSave}))

	g := s.m.Game()
	s.Equal("Lommel", g.Opponent)
	s.Equal([]int64{2}, g.Quarters[0].Goals)
	s.Equal(1, g.Quarters[0].Saves)

	s.ErrorIs(s.m.Apply(s.ctx, match.Command{Action: "dance"}), match.ErrUnknownAction)
	s.ErrorIs(s.m.Apply(s.ctx, match.Command{Action: match.ActionRecordStat, Field: "corners"}), match.ErrUnknownField)
}
