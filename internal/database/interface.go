package database

import "context"

// Querier is the slice of DB the catalog layer needs: a parameterized query
// with forward-only row iteration.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// DB is the central contract for all database connections.
// All layers above this package talk only to this interface;
// they never import the postgres or sqldb packages directly.
type DB interface {
	Querier

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection pool.
	Close()
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Columns returns the column names of the result set.
	Columns() ([]string, error)

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}
