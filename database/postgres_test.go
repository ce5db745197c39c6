package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PostgresStore{db: db}, mock
}

func TestPostgresStoreMigrate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS itineraries")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_itineraries_created_at")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSave(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO itineraries")).
		WithArgs("a", "SIN", "TYO", 740.0, "fallback", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), itinerary("a")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveDuplicate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO itineraries")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Save(context.Background(), itinerary("a"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPostgresStoreGet(t *testing.T) {
	s, mock := newMockStore(t)
	payload, err := json.Marshal(itinerary("a"))
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM itineraries WHERE request_id = $1")).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.RequestID)
	assert.Equal(t, "2024-06-01", got.TravelRequest.DepartDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetErrors(t *testing.T) {
	t.Run("missing row", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT payload").WillReturnError(sql.ErrNoRows)

		_, err := s.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("driver failure", func(t *testing.T) {
		s, mock := newMockStore(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery("SELECT payload").WillReturnError(boom)

		_, err := s.Get(context.Background(), "a")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
