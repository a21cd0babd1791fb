// Package engine bundles everything that differs between the supported
// database engines: identifier case, catalog queries, SQL dialect and the
// value-expression builder.
//
// A Profile is resolved once per fetch and passed around explicitly, so no
// caller ever switches on an engine name itself.
package engine

import (
	"strings"

	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/errs"
)

// Engine is one of the supported database engines.
type Engine string

const (
	Postgres Engine = "postgres"
	Oracle   Engine = "oracle"
	MySQL    Engine = "mysql"
	MSSQL    Engine = "mssql"
	DB2      Engine = "db2"
)

// Default is used in place of any unrecognized engine name.
const Default = Postgres

// All lists the supported engines.
func All() []Engine {
	return []Engine{Postgres, Oracle, MySQL, MSSQL, DB2}
}

// Parse maps a configured engine name to an Engine. Matching ignores case
// and surrounding space.
func Parse(name string) (Engine, error) {
	want := Engine(strings.ToLower(strings.TrimSpace(name)))
	known := All()
	names := make([]string, len(known))
	for i, e := range known {
		if e == want {
			return e, nil
		}
		names[i] = string(e)
	}
	return "", errs.Newf(errs.ErrKindUnknownEngine, "unknown engine %q (want one of %s)", name, strings.Join(names, ", "))
}

func (e Engine) String() string { return string(e) }

// Driver is the connection driver serving this engine.
func (e Engine) Driver() database.Driver {
	return database.Driver(e)
}
