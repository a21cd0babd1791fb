package engine

import (
	"github.com/fsarwari/pgCompare/internal/column"
	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/ident"
)

// Builder renders the SQL fragment that reads a column's value in the
// normalized text form used for comparison.
type Builder interface {
	BuildValueExpression(col *column.Column) string
}

// Profile is the per-engine bundle the catalog layer works from.
type Profile struct {
	Engine     Engine
	NativeCase ident.NativeCase

	// ColumnsSQL takes schema and table as its two positional parameters.
	ColumnsSQL string

	// TablesSQL takes schema as its only positional parameter.
	TablesSQL string

	Dialect database.Dialect
	Builder Builder
}

// Registry holds one Profile per engine, built from a single Options value.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	profiles map[Engine]Profile
}

// NewRegistry builds the profiles for every supported engine.
func NewRegistry(opts Options) *Registry {
	opts = opts.normalize()
	return &Registry{profiles: map[Engine]Profile{
		Postgres: {
			Engine:     Postgres,
			NativeCase: ident.Lower,
			ColumnsSQL: postgresColumnsSQL,
			TablesSQL:  postgresTablesSQL,
			Dialect:    database.DialectPostgres,
			Builder:    postgresBuilder{opts: opts},
		},
		Oracle: {
			Engine:     Oracle,
			NativeCase: ident.Upper,
			ColumnsSQL: oracleColumnsSQL,
			TablesSQL:  oracleTablesSQL,
			Dialect:    database.DialectOracle,
			Builder:    oracleBuilder{opts: opts},
		},
		MySQL: {
			Engine:     MySQL,
			NativeCase: ident.Lower,
			ColumnsSQL: mysqlColumnsSQL,
			TablesSQL:  mysqlTablesSQL,
			Dialect:    database.DialectMySQL,
			Builder:    mysqlBuilder{opts: opts},
		},
		MSSQL: {
			Engine:     MSSQL,
			NativeCase: ident.Lower,
			ColumnsSQL: mssqlColumnsSQL,
			TablesSQL:  mssqlTablesSQL,
			Dialect:    database.DialectMSSQL,
			Builder:    mssqlBuilder{opts: opts},
		},
		DB2: {
			Engine:     DB2,
			NativeCase: ident.Upper,
			ColumnsSQL: db2ColumnsSQL,
			TablesSQL:  db2TablesSQL,
			Dialect:    database.DialectDB2,
			Builder:    db2Builder{opts: opts},
		},
	}}
}

// Get returns the profile for a known engine.
func (r *Registry) Get(e Engine) Profile {
	if p, ok := r.profiles[e]; ok {
		return p
	}
	return r.profiles[Default]
}

// Resolve returns the profile for name, falling back to the postgres
// profile for empty or unrecognized names. fellBack reports whether the
// fallback was taken.
func (r *Registry) Resolve(name string) (p Profile, fellBack bool) {
	e, err := Parse(name)
	if err != nil {
		return r.Get(Default), true
	}
	return r.Get(e), false
}

// ErrUnknown builds the error returned for an unrecognized engine name.
func ErrUnknown(role, name string) *errs.Error {
	return errs.Newf(errs.ErrKindUnknownEngine, "role %q has unknown engine type %q", role, name)
}
