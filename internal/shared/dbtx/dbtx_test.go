package dbtx_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/dbtx"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_OwnedCommitRunsHooks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	unit, err := dbtx.Begin(context.Background(), db, nil)
	require.NoError(t, err)
	defer unit.Rollback()

	var ran []string
	unit.AfterCommit(func() { ran = append(ran, "outer") })

	joined, err := dbtx.Begin(context.Background(), db, unit)
	require.NoError(t, err)
	assert.False(t, joined.Owned())
	assert.Same(t, unit.Tx, joined.Tx)

	joined.AfterCommit(func() { ran = append(ran, "joined") })
	require.NoError(t, joined.Commit())
	joined.Rollback()
	assert.Empty(t, ran)

	require.NoError(t, unit.Commit())
	assert.Equal(t, []string{"outer", "joined"}, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnit_RollbackSkipsHooks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	unit, err := dbtx.Begin(context.Background(), db, nil)
	require.NoError(t, err)

	called := false
	unit.AfterCommit(func() { called = true })
	unit.Rollback()

	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnit_CommitErrorSkipsHooks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	unit, err := dbtx.Begin(context.Background(), db, nil)
	require.NoError(t, err)

	called := false
	unit.AfterCommit(func() { called = true })

	assert.Error(t, unit.Commit())
	assert.False(t, called)
}

func TestBegin_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	unit, err := dbtx.Begin(context.Background(), db, nil)
	assert.Error(t, err)
	assert.Nil(t, unit)
}
