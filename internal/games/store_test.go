package games_test

import (
	"context"
	"testing"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/database"
	"github.com/bsluismans-tech/FootballTracker/internal/games"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database with a game store on top.
func setupTestDB(t *testing.T) (games.GameStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC))
	return games.New(sqlx.NewDb(db, "sqlite3"), clock), teardown
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 10, 30, 0, 0, time.UTC)
}

func finishedGame(id int64, date time.Time, goals []int64, opponentGoals int) *match.Game {
	g := match.NewGame(id, date, []int64{1, 2, 3})
	g.Quarters[0].Goals = goals
	g.Quarters[1].OpponentGoals = opponentGoals
	g.Status = match.StatusFinished
	return g
}

func TestUpsertAndGet_RoundTrip(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	g := finishedGame(1, day(1), []int64{1, 2, 1}, 2)
	g.Opponent = "KFC Peer"
	g.IsAway = true
	g.ParentsPresent = []int64{10, 11}
	g.Notes = "Cold"
	g.Quarters[2].SetGoalkeeper(3)
	g.Quarters[2].Saves = 4
	g.Quarters[2].Substitutes = []int64{1}
	g.Quarters[2].Substitutions = []match.Substitution{{OutID: 1, InID: 2}}
	ended := day(1).Add(time.Hour)
	g.EndedAt = &ended

	require.NoError(t, store.Upsert(ctx, g))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestUpsert_OverwritesSameID(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	g := match.NewGame(1, day(1), []int64{1})
	g.Status = match.StatusActive
	require.NoError(t, store.Upsert(ctx, g))

	g.Quarters[0].Goals = []int64{1}
	g.Status = match.StatusFinished
	require.NoError(t, store.Upsert(ctx, g))

	all, err := store.Query(ctx, games.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, match.StatusFinished, all[0].Status)
	assert.Equal(t, []int64{1}, all[0].Quarters[0].Goals)
}

func TestCreate_RejectsDuplicate(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	g := match.NewGame(1, day(1), nil)
	require.NoError(t, store.Create(ctx, g))
	assert.Error(t, store.Create(ctx, g))
}

func TestUpdate_OnlyWritesGivenFields(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	g := finishedGame(1, day(1), []int64{2}, 0)
	g.Status = match.StatusActive
	g.Notes = "Keep me"
	require.NoError(t, store.Upsert(ctx, g))

	status := match.StatusCancelled
	require.NoError(t, store.Update(ctx, 1, match.Patch{Status: &status}))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, match.StatusCancelled, got.Status)
	assert.Equal(t, "Keep me", got.Notes)
	assert.Equal(t, []int64{2}, got.Quarters[0].Goals)

	err = store.Update(ctx, 99, match.Patch{Status: &status})
	assert.ErrorIs(t, err, games.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, match.NewGame(1, day(1), nil)))
	require.NoError(t, store.Delete(ctx, 1))

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, games.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 1), games.ErrNotFound)
}

func TestQuery_FilterOrderLimit(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, finishedGame(1, day(3), nil, 0)))
	require.NoError(t, store.Upsert(ctx, finishedGame(2, day(1), nil, 0)))
	require.NoError(t, store.Upsert(ctx, finishedGame(3, day(2), nil, 0)))
	active := match.NewGame(4, day(4), nil)
	active.Status = match.StatusActive
	require.NoError(t, store.Upsert(ctx, active))

	finished, err := store.Query(ctx, games.Filter{Status: match.StatusFinished})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, gameIDs(finished))

	newest, err := store.Query(ctx, games.Filter{Newest: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 1}, gameIDs(newest))
}

func TestUpsert_RejectsBrokenQuarters(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	g := match.NewGame(1, day(1), nil)
	g.Quarters[0].Number = 2
	assert.ErrorIs(t, store.Upsert(context.Background(), g), match.ErrInvalidQuarters)
}

func TestSubscribe_InitialAndAfterWrites(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	var snapshots [][]int64
	unsubscribe := store.Subscribe(games.Filter{Status: match.StatusActive, Limit: 1}, func(gs []match.Game) {
		snapshots = append(snapshots, gameIDs(gs))
	})

	active := match.NewGame(7, day(1), nil)
	active.Status = match.StatusActive
	require.NoError(t, store.Upsert(ctx, active))

	status := match.StatusFinished
	require.NoError(t, store.Update(ctx, 7, match.Patch{Status: &status}))

	unsubscribe()
	require.NoError(t, store.Delete(ctx, 7))

	assert.Equal(t, [][]int64{{}, {7}, {}}, snapshots)
}

func gameIDs(gs []match.Game) []int64 {
	out := []int64{}
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}
