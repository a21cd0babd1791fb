// Package connect opens and caches one database connection pool per
// configured role.
package connect

import (
	"context"
	"sync"

	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/database/postgres"
	"github.com/fsarwari/pgCompare/internal/database/sqldb"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/logger"
)

// Source supplies connection settings per role. *config.Config satisfies it.
type Source interface {
	Database(role string) (*database.Config, error)
}

// OpenFunc opens a connection pool for cfg.
type OpenFunc func(ctx context.Context, cfg *database.Config) (database.DB, error)

// Open picks the driver package serving cfg.Driver.
func Open(ctx context.Context, cfg *database.Config) (database.DB, error) {
	switch cfg.Driver {
	case database.DriverPostgres:
		return postgres.New(ctx, cfg)
	case database.DriverMySQL, database.DriverMSSQL, database.DriverOracle, database.DriverDB2:
		return sqldb.New(ctx, cfg)
	}
	return nil, errs.Newf(errs.ErrKindInvalidInput, "no driver for %q", cfg.Driver)
}

// Manager hands out one shared pool per role, opening it on first use.
// It is safe for concurrent use.
type Manager struct {
	src  Source
	open OpenFunc
	log  *logger.Logger

	mu    sync.Mutex
	pools map[string]*entry
}

type entry struct {
	db  database.DB
	cfg *database.Config
}

// NewManager returns a Manager using Open. Pass a non-nil open to
// substitute the driver, e.g. in tests.
func NewManager(src Source, open OpenFunc, log *logger.Logger) *Manager {
	if open == nil {
		open = Open
	}
	if log == nil {
		log = logger.Global()
	}
	return &Manager{
		src:   src,
		open:  open,
		log:   log.Component("connect"),
		pools: make(map[string]*entry),
	}
}

// DB returns the pool for role, opening it if needed.
func (m *Manager) DB(ctx context.Context, role string) (database.DB, error) {
	e, err := m.get(ctx, role)
	if err != nil {
		return nil, err
	}
	return e.db, nil
}

// WithQueryTimeout derives a context bounded by role's query timeout.
func (m *Manager) WithQueryTimeout(ctx context.Context, role string) (context.Context, context.CancelFunc) {
	cfg, err := m.src.Database(role)
	if err != nil || cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.QueryTimeout)
}

func (m *Manager) get(ctx context.Context, role string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.pools[role]; ok {
		return e, nil
	}

	cfg, err := m.src.Database(role)
	if err != nil {
		return nil, err
	}
	db, err := m.open(ctx, cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "connect role "+role, err)
	}

	m.log.With().Str("role", role).Str("driver", string(cfg.Driver)).Logger().Info("connection pool opened")
	e := &entry{db: db, cfg: cfg}
	m.pools[role] = e
	return e, nil
}

// Close closes every pool opened so far.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for role, e := range m.pools {
		e.db.Close()
		delete(m.pools, role)
	}
}
