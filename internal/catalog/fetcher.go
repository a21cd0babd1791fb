// Package catalog reads column metadata from an engine's catalog and turns
// it into column descriptors ready for comparison.
package catalog

import (
	"context"
	"strings"

	"github.com/fsarwari/pgCompare/internal/column"
	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/datatype"
	"github.com/fsarwari/pgCompare/internal/engine"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/ident"
	"github.com/fsarwari/pgCompare/internal/logger"
)

const logComponent = "column-fetch"

// RoleResolver maps a connection role ("source", "target", ...) to the
// engine name configured for it. An empty result means the role is unknown.
type RoleResolver interface {
	EngineFor(role string) string
}

// RoleResolverFunc adapts a function to RoleResolver.
type RoleResolverFunc func(role string) string

func (f RoleResolverFunc) EngineFor(role string) string { return f(role) }

// StaticRoles is a fixed role to engine name mapping.
type StaticRoles map[string]string

func (m StaticRoles) EngineFor(role string) string { return m[role] }

// Options configures a Fetcher.
type Options struct {
	// Strict makes an unrecognized engine name an error instead of falling
	// back to the postgres profile.
	Strict bool

	// Engine tunes value-expression rendering.
	Engine engine.Options

	// Logger receives warnings and retrieval errors. Defaults to the
	// global logger.
	Logger *logger.Logger
}

// Fetcher builds column descriptors from catalog queries. It holds no
// per-call state and is safe for concurrent use; the Querier passed to each
// call must itself be safe for the way it is shared.
type Fetcher struct {
	roles    RoleResolver
	registry *engine.Registry
	log      *logger.Logger
	strict   bool
}

// NewFetcher returns a Fetcher resolving roles through roles.
func NewFetcher(roles RoleResolver, opts Options) *Fetcher {
	log := opts.Logger
	if log == nil {
		log = logger.Global()
	}
	return &Fetcher{
		roles:    roles,
		registry: engine.NewRegistry(opts.Engine),
		log:      log.Component(logComponent),
		strict:   opts.Strict,
	}
}

// Profile resolves role to its engine profile. Unknown or unset engine
// names fall back to postgres with a warning, or fail in strict mode.
func (f *Fetcher) Profile(role string) (engine.Profile, error) {
	name := f.roles.EngineFor(role)
	p, fellBack := f.registry.Resolve(name)
	if !fellBack {
		return p, nil
	}
	if f.strict {
		return engine.Profile{}, engine.ErrUnknown(role, name)
	}
	f.log.WarnWith("unknown engine type, using postgres", map[string]interface{}{
		"role":   role,
		"engine": name,
	})
	return p, nil
}

// ProfileFor resolves the profile used to read src's catalog while building
// value expressions for dest. The catalog queries and dialect come from
// src's engine; native case and the value builder come from dest's. The
// returned Engine is dest's.
func (f *Fetcher) ProfileFor(src, dest string) (engine.Profile, error) {
	sp, err := f.Profile(src)
	if err != nil || dest == "" || dest == src {
		return sp, err
	}
	dp, err := f.Profile(dest)
	if err != nil {
		return engine.Profile{}, err
	}
	dp.ColumnsSQL = sp.ColumnsSQL
	dp.TablesSQL = sp.TablesSQL
	dp.Dialect = sp.Dialect
	return dp, nil
}

// FetchColumns returns one descriptor per column of schema.table, in
// catalog order, with value expressions for the engine configured for
// role.
//
// Columns of unsupported types are kept with Supported=false and logged as
// a warning each. If the catalog query fails part way, the descriptors
// read so far are returned together with the error, which is also logged.
func (f *Fetcher) FetchColumns(ctx context.Context, q database.Querier, schema, table, role string) ([]column.Column, error) {
	p, err := f.Profile(role)
	if err != nil {
		return []column.Column{}, err
	}
	return f.Fetch(ctx, q, schema, table, p)
}

// Fetch is FetchColumns with an already resolved profile.
func (f *Fetcher) Fetch(ctx context.Context, q database.Querier, schema, table string, p engine.Profile) ([]column.Column, error) {
	cols := []column.Column{}

	rows, err := q.Query(ctx, p.ColumnsSQL, schema, table)
	if err != nil {
		return cols, f.retrievalFailed(schema, table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name, dataType, nullable, pk string
			length, precision, scale     *int64
		)
		if err := rows.Scan(&name, &dataType, &length, &precision, &scale, &nullable, &pk); err != nil {
			return cols, f.retrievalFailed(schema, table, err)
		}
		cols = append(cols, f.describe(p, name, dataType, length, precision, scale, nullable, pk))
	}
	if err := rows.Err(); err != nil {
		return cols, f.retrievalFailed(schema, table, err)
	}

	return cols, nil
}

func (f *Fetcher) describe(p engine.Profile, name, dataType string, length, precision, scale *int64, nullable, pk string) column.Column {
	supported := datatype.IsSupported(dataType)
	if !supported {
		f.log.WarnWith("unsupported data type", map[string]interface{}{
			"column":   name,
			"dataType": dataType,
		})
	}

	c := column.Column{
		Supported:     supported,
		Name:          name,
		DataType:      dataType,
		DataLength:    intValue(length),
		DataPrecision: intValue(precision),
		DataScale:     intValue(scale),
		Nullable:      flag(nullable),
		PrimaryKey:    flag(pk),
		DataClass:     datatype.Classify(dataType),
		PreserveCase:  ident.PreserveCase(p.NativeCase, name),
	}
	c.ValueExpression = p.Builder.BuildValueExpression(&c)
	return c
}

func (f *Fetcher) retrievalFailed(schema, table string, err error) *errs.Error {
	wrapped := errs.Wrap(errs.ErrKindQueryFailed, "retrieve columns for "+schema+"."+table, err)
	f.log.ErrorWith("error retrieving columns", err, map[string]interface{}{
		"schema": schema,
		"table":  table,
	})
	return wrapped
}

func intValue(v *int64) int {
	if v == nil {
		return 0
	}
	return int(*v)
}

func flag(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "Y")
}
