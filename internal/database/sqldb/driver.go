// Package sqldb implements database.DB on top of database/sql for the
// engines reached through a database/sql driver: MySQL, SQL Server, Oracle
// and DB2.
//
// MySQL, SQL Server and Oracle drivers are registered by this package. DB2
// needs the cgo-based go_ibm_db driver; programs that want DB2 connections
// import it themselves so the rest of the build stays cgo-free.
package sqldb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/go-sql-driver/mysql"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/sijms/go-ora/v2/network"

	_ "github.com/sijms/go-ora/v2" // register "oracle" driver
)

const (
	defaultMaxOpenConns    = 4
	defaultMaxIdleConns    = 1
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	defaultConnectTimeout  = 10 * time.Second
)

// Driver is a database/sql implementation of database.DB.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	db     *sql.DB
	engine database.Driver
}

var _ database.DB = (*Driver)(nil)

// DriverName returns the database/sql driver name registered for engine.
func DriverName(engine database.Driver) (string, error) {
	switch engine {
	case database.DriverMySQL:
		return "mysql", nil
	case database.DriverMSSQL:
		return "sqlserver", nil
	case database.DriverOracle:
		return "oracle", nil
	case database.DriverDB2:
		return "go_ibm_db", nil
	}
	return "", errs.Newf(errs.ErrKindInvalidInput, "sqldb: driver %q is not served by database/sql", engine)
}

// New opens a connection pool using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	name, err := DriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(name, cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN or unregistered driver "+name, err)
	}
	configurePool(db, cfg)

	d := &Driver{db: db, engine: cfg.Driver}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

func configurePool(db *sql.DB, cfg *database.Config) {
	maxOpen := int(cfg.MaxConns)
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := int(cfg.MinConns)
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	lifetime := cfg.MaxConnLifetime
	if lifetime == 0 {
		lifetime = defaultConnMaxLifetime
	}
	idle := cfg.MaxConnIdleTime
	if idle == 0 {
		idle = defaultConnMaxIdleTime
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)
	db.SetConnMaxIdleTime(idle)
}

// --- database.DB implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() {
	_ = d.db.Close()
}

func (d *Driver) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &sqlRows{rows: rows}, nil
}

// --- sql.DB type wrappers ---

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool                 { return r.rows.Next() }
func (r *sqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *sqlRows) Close()                     { _ = r.rows.Close() }

func (r *sqlRows) Scan(dest ...any) error {
	if err := r.rows.Scan(dest...); err != nil {
		return mapError(err, "scan failed")
	}
	return nil
}

func (r *sqlRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return mapError(err, "row iteration failed")
	}
	return nil
}

// --- error mapping ---

// mapError translates database/sql and vendor driver errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(
			classifyMySQLCode(mysqlErr.Number),
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message),
			err,
		)
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return errs.Wrap(
			classifyMSSQLNumber(msErr.Number),
			fmt.Sprintf("%s: %s", msg, msErr.Message),
			err,
		)
	}

	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return errs.Wrap(
			classifyOracleCode(oraErr.ErrCode),
			fmt.Sprintf("%s: %s", msg, oraErr.ErrMsg),
			err,
		)
	}

	// Anything left is either a transport failure or a driver-side
	// conversion error raised while scanning.
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

// classifyOracleCode maps ORA- error numbers to ErrKind.
func classifyOracleCode(code int) errs.ErrKind {
	switch {
	case code == 942, code == 4043:
		return errs.ErrKindNotFound
	case code == 1017, code == 1031, code == 1045:
		return errs.ErrKindPermissionDenied
	case code == 1013:
		return errs.ErrKindTimeout
	case code == 3113, code == 3114, code == 3135, code >= 12500 && code < 12600:
		return errs.ErrKindConnectionFailed
	default:
		return errs.ErrKindQueryFailed
	}
}

// classifyMySQLCode maps MySQL error numbers to ErrKind.
func classifyMySQLCode(code uint16) errs.ErrKind {
	switch code {
	case 1044, 1045, 1142, 1143:
		return errs.ErrKindPermissionDenied
	case 1040, 1046, 1049, 1203:
		return errs.ErrKindConnectionFailed
	case 1146:
		return errs.ErrKindNotFound
	case 3024:
		return errs.ErrKindTimeout
	default:
		return errs.ErrKindQueryFailed
	}
}

// classifyMSSQLNumber maps SQL Server error numbers to ErrKind.
func classifyMSSQLNumber(number int32) errs.ErrKind {
	switch number {
	case 18456, 229, 230:
		return errs.ErrKindPermissionDenied
	case 4060, 40613:
		return errs.ErrKindConnectionFailed
	case 208:
		return errs.ErrKindNotFound
	case -2:
		return errs.ErrKindTimeout
	default:
		return errs.ErrKindQueryFailed
	}
}
