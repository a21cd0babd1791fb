package catalog

import (
	"context"
	"strings"

	"github.com/fsarwari/pgCompare/internal/column"
	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/errs"
)

const (
	defaultPreviewLimit = 10
	maxPreviewLimit     = 1000
)

// ListTables returns the base tables of schema, sorted by name, as seen
// through the catalog of the engine configured for role.
func (f *Fetcher) ListTables(ctx context.Context, q database.Querier, schema, role string) ([]string, error) {
	p, err := f.Profile(role)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, p.TablesSQL, schema)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "list tables in "+schema, err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return tables, errs.Wrap(errs.ErrKindQueryFailed, "scan table name", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return tables, errs.Wrap(errs.ErrKindQueryFailed, "list tables in "+schema, err)
	}
	return tables, nil
}

// PreviewOptions narrows the rows Preview reads.
type PreviewOptions struct {
	// Columns are the descriptors whose value expressions are selected.
	// When empty they are fetched first.
	Columns []column.Column

	// Limit defaults to 10 and is capped at 1000.
	Limit  int
	Offset int

	// Filters are ANDed together and compare raw column values.
	Filters []Filter
}

// Filter is one "column op value" condition of a preview.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// filterOps is ordered so that two-character operators win over their
// one-character prefixes.
var filterOps = []string{"<>", "!=", ">=", "<=", "=", "<", ">"}

// ParseFilter parses "column=value" style conditions. The operator is one
// of =, !=, <>, <, >, <=, >= or the word LIKE surrounded by spaces.
func ParseFilter(s string) (Filter, error) {
	at, op := -1, ""
	for _, candidate := range filterOps {
		if i := strings.Index(s, candidate); i >= 0 && (at < 0 || i < at) {
			at, op = i, candidate
		}
	}
	if i := strings.Index(strings.ToLower(s), " like "); i >= 0 && (at < 0 || i < at) {
		at, op = i, " like "
	}
	if at < 0 {
		return Filter{}, errs.Newf(errs.ErrKindInvalidInput, "filter %q has no comparison operator", s)
	}

	f := Filter{
		Column: strings.TrimSpace(s[:at]),
		Op:     strings.ToUpper(strings.TrimSpace(op)),
		Value:  strings.TrimSpace(s[at+len(op):]),
	}
	if f.Column == "" {
		return Filter{}, errs.Newf(errs.ErrKindInvalidInput, "filter %q has no column", s)
	}
	return f, nil
}

// Preview reads rows of schema.table through the value expressions of the
// selected columns, keyed by column name. Unsupported columns are left out;
// rows are ordered by primary key when there is one.
func (f *Fetcher) Preview(ctx context.Context, q database.Querier, schema, table, role string, opts PreviewOptions) ([]map[string]any, error) {
	p, err := f.Profile(role)
	if err != nil {
		return nil, err
	}

	cols := opts.Columns
	if len(cols) == 0 {
		cols, err = f.Fetch(ctx, q, schema, table, p)
		if err != nil {
			return nil, err
		}
	}

	limit := opts.Limit
	switch {
	case limit <= 0:
		limit = defaultPreviewLimit
	case limit > maxPreviewLimit:
		limit = maxPreviewLimit
	}

	b := database.Select(schema, table, p.Dialect)
	selected := 0
	for _, c := range cols {
		if !c.Supported || c.ValueExpression == "" {
			continue
		}
		b.Expr(c.ValueExpression, c.Name)
		selected++
	}
	if selected == 0 {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "%s.%s has no comparable columns", schema, table)
	}
	for _, flt := range opts.Filters {
		b.Where(flt.Column, flt.Op, flt.Value)
	}
	for _, k := range column.PrimaryKeys(cols) {
		b.OrderBy(k, database.Asc)
	}
	b.Limit(limit)
	if opts.Offset > 0 {
		b.Offset(opts.Offset)
	}

	sql, args, err := b.Build()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "preview "+schema+"."+table, err)
	}
	return database.ScanRows(rows)
}
