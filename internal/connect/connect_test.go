package connect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/database/dbtest"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sources map[string]*database.Config

func (s sources) Database(role string) (*database.Config, error) {
	cfg, ok := s[role]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "role %q is not configured", role)
	}
	return cfg, nil
}

func TestManager_OpensOncePerRole(t *testing.T) {
	src := sources{"source": database.DefaultConfig(database.DriverMySQL, "dsn")}
	opened := 0
	fake := &dbtest.DB{}
	m := NewManager(src, func(_ context.Context, cfg *database.Config) (database.DB, error) {
		opened++
		assert.Equal(t, database.DriverMySQL, cfg.Driver)
		return fake, nil
	}, logger.Nop())

	for i := 0; i < 3; i++ {
		db, err := m.DB(context.Background(), "source")
		require.NoError(t, err)
		assert.Same(t, fake, db)
	}
	assert.Equal(t, 1, opened)

	m.Close()
	assert.True(t, fake.Closed)
}

func TestManager_Errors(t *testing.T) {
	src := sources{"source": database.DefaultConfig(database.DriverPostgres, "dsn")}
	m := NewManager(src, func(context.Context, *database.Config) (database.DB, error) {
		return nil, errors.New("dial tcp: refused")
	}, logger.Nop())

	_, err := m.DB(context.Background(), "nobody")
	assert.True(t, errs.IsNotFound(err))

	_, err = m.DB(context.Background(), "source")
	assert.True(t, errs.IsConnectionFailed(err))
}

func TestManager_WithQueryTimeout(t *testing.T) {
	cfg := database.DefaultConfig(database.DriverPostgres, "dsn")
	cfg.QueryTimeout = time.Minute
	m := NewManager(sources{"source": cfg}, nil, logger.Nop())

	ctx, cancel := m.WithQueryTimeout(context.Background(), "source")
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	ctx2, cancel2 := m.WithQueryTimeout(context.Background(), "nobody")
	defer cancel2()
	_, ok = ctx2.Deadline()
	assert.False(t, ok)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &database.Config{Driver: "sybase"})
	assert.True(t, errs.IsInvalidInput(err))
}
