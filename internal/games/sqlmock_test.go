package games

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedStore(t *testing.T) (GameStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return New(db, clockwork.NewFakeClock()), mock
}

func TestUpsert_PropagatesDriverError(t *testing.T) {
	store, mock := newMockedStore(t)
	boom := errors.New("disk I/O error")

	mock.ExpectExec(`INSERT INTO games`).WillReturnError(boom)

	err := store.Upsert(context.Background(), match.NewGame(1, time.Now(), nil))
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NoRowsIsNotFound(t *testing.T) {
	store, mock := newMockedStore(t)
	status := match.StatusCancelled

	mock.ExpectExec(`UPDATE games SET updated_at_ms = \?, status = \? WHERE id = \?`).
		WithArgs(sqlmock.AnyArg(), "cancelled", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Update(context.Background(), 5, match.Patch{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_SkipsUndecodableRows(t *testing.T) {
	store, mock := newMockedStore(t)

	cols := []string{"id", "date_ms", "status", "opponent", "is_away", "notes", "players_present_json", "parents_present_json", "quarters_json", "ended_at_ms", "updated_at_ms"}
	mock.ExpectQuery(`SELECT .* FROM games WHERE status = \? ORDER BY date_ms ASC, id ASC`).
		WithArgs("finished").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 0, "finished", "", false, "", "[]", "[]", "[]", nil, 0).
			AddRow(2, 0, "finished", "", false, "", "not json", "[]", "[]", nil, 0))

	got, err := store.Query(context.Background(), Filter{Status: match.StatusFinished})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.NoError(t, got[0].CheckQuarters())
	assert.NoError(t, mock.ExpectationsWereMet())
}
