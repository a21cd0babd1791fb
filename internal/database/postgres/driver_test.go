package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"canceled wrapped", fmt.Errorf("read: %w", context.Canceled), errs.ErrKindTimeout},
		{"no rows", pgx.ErrNoRows, errs.ErrKindNotFound},
		{"connection class", &pgconn.PgError{Code: "08006"}, errs.ErrKindConnectionFailed},
		{"auth class", &pgconn.PgError{Code: "28P01"}, errs.ErrKindPermissionDenied},
		{"privilege", &pgconn.PgError{Code: "42501"}, errs.ErrKindPermissionDenied},
		{"canceled by server", &pgconn.PgError{Code: "57014"}, errs.ErrKindTimeout},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, errs.ErrKindNotFound},
		{"syntax", &pgconn.PgError{Code: "42601"}, errs.ErrKindQueryFailed},
		{"network", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, errs.ErrKindConnectionFailed},
		{"eof", fmt.Errorf("read: %w", io.EOF), errs.ErrKindConnectionFailed},
		{"scan conversion", errors.New("can't scan into dest[2]: cannot scan NULL into *int64"), errs.ErrKindQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err, "query failed")
			require.NotNil(t, mapped)
			assert.Equal(t, tt.kind, mapped.Kind)
			assert.ErrorIs(t, mapped, tt.err)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, mapError(nil, "unused"))
}

func TestNew_InvalidDSN(t *testing.T) {
	_, err := New(context.Background(), database.DefaultConfig(database.DriverPostgres, "postgres://%zz"))
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
}

func TestWithDefault(t *testing.T) {
	assert.Equal(t, int32(4), withDefault(0, 4))
	assert.Equal(t, int32(9), withDefault(9, 4))
}
