package database

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestRunMigrations_AppliesInOrder(t *testing.T) {
	db, mock := newMockDB(t)
	fsys := fstest.MapFS{
		"000002_second.up.sql": {Data: []byte("CREATE TABLE second (id INT)")},
		"000001_first.up.sql":  {Data: []byte("CREATE TABLE first (id INT)")},
		"README.md":            {Data: []byte("ignored")},
	}

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE first").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE second").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, runMigrations(db, fsys))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_StopsOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	fsys := fstest.MapFS{
		"000001_first.up.sql":  {Data: []byte("CREATE TABLE first (id INT)")},
		"000002_second.up.sql": {Data: []byte("CREATE TABLE second (id INT)")},
	}

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE first").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	err := runMigrations(db, fsys)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "000001_first.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrations(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_slots").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS leaderboard_standings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, RunMigrations(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
