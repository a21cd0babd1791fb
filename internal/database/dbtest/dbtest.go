// Package dbtest provides in-memory fakes of the database contracts for
// tests that must not need a live engine.
package dbtest

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsarwari/pgCompare/internal/database"
)

// Rows replays a fixed result set. When FailAfter is >= 0, iteration stops
// after that many rows and Err returns IterErr.
type Rows struct {
	Cols      []string
	Data      [][]any
	FailAfter int
	IterErr   error

	pos    int
	closed bool
}

// NewRows builds a Rows that yields every row in data.
func NewRows(cols []string, data ...[]any) *Rows {
	return &Rows{Cols: cols, Data: data, FailAfter: -1}
}

func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	if r.FailAfter >= 0 && r.pos >= r.FailAfter {
		return false
	}
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.Data) {
		return errors.New("dbtest: Scan called without a current row")
	}
	row := r.Data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("dbtest: expected %d scan targets, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return fmt.Errorf("dbtest: column %d: %w", i, err)
		}
	}
	return nil
}

func (r *Rows) Columns() ([]string, error) { return r.Cols, nil }
func (r *Rows) Close()                     { r.closed = true }

// Closed reports whether Close was called.
func (r *Rows) Closed() bool { return r.closed }

func (r *Rows) Err() error {
	if r.FailAfter >= 0 && r.pos >= r.FailAfter {
		return r.IterErr
	}
	return nil
}

func assign(dest, v any) error {
	switch d := dest.(type) {
	case *any:
		*d = v
	case *string:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("cannot scan %T into *string", v)
		}
		*d = s
	case *bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("cannot scan %T into *bool", v)
		}
		*d = b
	case *int64:
		n, ok := toInt64(v)
		if !ok {
			return fmt.Errorf("cannot scan %T into *int64", v)
		}
		*d = n
	case **int64:
		if v == nil {
			*d = nil
			return nil
		}
		n, ok := toInt64(v)
		if !ok {
			return fmt.Errorf("cannot scan %T into **int64", v)
		}
		*d = &n
	default:
		return fmt.Errorf("unsupported scan target %T", dest)
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// Call records one Query invocation.
type Call struct {
	SQL  string
	Args []any
}

// DB is a fake database.DB. QueryFunc decides what each Query returns; the
// calls are recorded for assertions.
type DB struct {
	QueryFunc func(sql string, args ...any) (database.Rows, error)
	PingErr   error
	Calls     []Call
	Closed    bool
}

var _ database.DB = (*DB)(nil)

func (db *DB) Ping(context.Context) error { return db.PingErr }
func (db *DB) Close()                     { db.Closed = true }

func (db *DB) Query(_ context.Context, sql string, args ...any) (database.Rows, error) {
	db.Calls = append(db.Calls, Call{SQL: sql, Args: args})
	if db.QueryFunc == nil {
		return NewRows(nil), nil
	}
	return db.QueryFunc(sql, args...)
}
