package database_test

import (
	"errors"
	"testing"

	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/database/dbtest"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRows(t *testing.T) {
	rows := dbtest.NewRows([]string{"id", "name"},
		[]any{int64(1), []byte("alice")},
		[]any{int64(2), nil},
	)

	got, err := database.ScanRows(rows)
	require.NoError(t, err)

	assert.Equal(t, []map[string]any{
		{"id": int64(1), "name": "alice"},
		{"id": int64(2), "name": nil},
	}, got)
	assert.True(t, rows.Closed())
}

func TestScanRows_Empty(t *testing.T) {
	got, err := database.ScanRows(dbtest.NewRows([]string{"id"}))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestScanRows_IterationError(t *testing.T) {
	rows := dbtest.NewRows([]string{"id"}, []any{int64(1)}, []any{int64(2)})
	rows.FailAfter = 1
	rows.IterErr = errors.New("connection reset")

	_, err := database.ScanRows(rows)
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
	assert.True(t, rows.Closed())
}
