package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/ident"
)

// Dialect controls placeholder style, identifier quoting and row limiting.
type Dialect int

const (
	// DialectPostgres uses $1, $2, … placeholders.
	DialectPostgres Dialect = iota

	// DialectMySQL uses ? placeholders and backtick quoting.
	DialectMySQL

	// DialectOracle uses :1, :2, … placeholders and folds to upper case.
	DialectOracle

	// DialectMSSQL uses @p1, @p2, … placeholders.
	DialectMSSQL

	// DialectDB2 uses ? placeholders and folds to upper case.
	DialectDB2
)

// Placeholder returns the bind marker for the idx-th (1-based) argument.
func (d Dialect) Placeholder(idx int) string {
	switch d {
	case DialectMySQL, DialectDB2:
		return "?"
	case DialectOracle:
		return ":" + strconv.Itoa(idx)
	case DialectMSSQL:
		return "@p" + strconv.Itoa(idx)
	default:
		return "$" + strconv.Itoa(idx)
	}
}

// QuoteChar is the identifier quote used by the dialect.
func (d Dialect) QuoteChar() string {
	if d == DialectMySQL {
		return "`"
	}
	return `"`
}

// NativeCase is the case unquoted identifiers fold to.
func (d Dialect) NativeCase() ident.NativeCase {
	if d == DialectOracle || d == DialectDB2 {
		return ident.Upper
	}
	return ident.Lower
}

// QuoteIdent quotes name only when the dialect would otherwise misread it.
func (d Dialect) QuoteIdent(name string) string {
	return ident.Quote(d.NativeCase(), name, d.QuoteChar())
}

// validOps is the allowlist of comparison operators for WHERE clauses.
// Any operator not in this list is rejected to prevent SQL injection
// through the operator position (which cannot be parameterized).
var validOps = map[string]bool{
	"=":    true,
	"!=":   true,
	"<>":   true,
	"<":    true,
	">":    true,
	"<=":   true,
	">=":   true,
	"LIKE": true,
}

// SelectBuilder constructs a parameterized SELECT query using a fluent API.
// Values are never interpolated into the SQL string; they are passed as args.
//
// Usage:
//
//	sql, args, err := Select("hr", "emp", DialectOracle).
//	    Expr(`nvl(trim("name"),' ')`, "name").
//	    Where("dept_id", "=", 10).
//	    OrderBy("emp_id", Asc).
//	    Limit(20).
//	    Build()
type SelectBuilder struct {
	schema  string
	table   string
	dialect Dialect
	items   []selectItem
	where   []whereClause
	orderBy []orderClause
	limit   *int
	offset  *int
}

// SortDirection controls the ORDER BY direction.
type SortDirection bool

const (
	Asc  SortDirection = false
	Desc SortDirection = true
)

type selectItem struct {
	expr  string
	alias string
}

type whereClause struct {
	column string
	op     string
	value  any
}

type orderClause struct {
	column string
	dir    SortDirection
}

// Select starts a new SelectBuilder for schema.table in the given dialect.
// schema may be empty.
func Select(schema, table string, d Dialect) *SelectBuilder {
	return &SelectBuilder{schema: schema, table: table, dialect: d}
}

// Expr appends a raw SQL expression with an optional alias. The expression
// is emitted verbatim, so it must come from trusted code, never user input.
// Without any Expr call, SELECT * is used.
func (b *SelectBuilder) Expr(expr, alias string) *SelectBuilder {
	b.items = append(b.items, selectItem{expr: expr, alias: alias})
	return b
}

// Where adds a WHERE condition. op must be one of the allowed comparison
// operators (=, !=, <>, <, >, <=, >=, LIKE).
// Multiple calls are combined with AND.
func (b *SelectBuilder) Where(column, op string, value any) *SelectBuilder {
	b.where = append(b.where, whereClause{column, op, value})
	return b
}

// OrderBy appends an ORDER BY clause for the given column and direction.
func (b *SelectBuilder) OrderBy(column string, dir SortDirection) *SelectBuilder {
	b.orderBy = append(b.orderBy, orderClause{column, dir})
	return b
}

// Limit sets the maximum number of rows to return.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = &n
	return b
}

// Offset sets the number of rows to skip.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = &n
	return b
}

// Build produces the final SQL string and argument slice.
// Limit and offset are integers and are rendered inline, since not every
// dialect accepts bind markers in its row-limiting clause.
func (b *SelectBuilder) Build() (string, []any, error) {
	if b.table == "" {
		return "", nil, errs.New(errs.ErrKindInvalidInput, "select: table is required")
	}
	if (b.limit != nil && *b.limit < 0) || (b.offset != nil && *b.offset < 0) {
		return "", nil, errs.New(errs.ErrKindInvalidInput, "select: limit and offset must be non-negative")
	}

	// --- select list ---
	cols := "*"
	if len(b.items) > 0 {
		parts := make([]string, len(b.items))
		for i, it := range b.items {
			parts[i] = it.expr
			if it.alias != "" {
				parts[i] += " AS " + b.dialect.QuoteIdent(it.alias)
			}
		}
		cols = strings.Join(parts, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	if b.schema != "" {
		sb.WriteString(b.dialect.QuoteIdent(b.schema))
		sb.WriteString(".")
	}
	sb.WriteString(b.dialect.QuoteIdent(b.table))

	var args []any

	// --- WHERE ---
	if len(b.where) > 0 {
		parts := make([]string, 0, len(b.where))
		for _, w := range b.where {
			op := strings.ToUpper(w.op)
			if !validOps[op] {
				return "", nil, errs.Newf(errs.ErrKindInvalidInput, "unsupported WHERE operator: %q", w.op)
			}
			args = append(args, w.value)
			parts = append(parts, fmt.Sprintf("%s %s %s", b.dialect.QuoteIdent(w.column), op, b.dialect.Placeholder(len(args))))
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(parts, " AND "))
	}

	// --- ORDER BY ---
	orderBy := make([]string, len(b.orderBy))
	for i, o := range b.orderBy {
		dir := "ASC"
		if o.dir == Desc {
			dir = "DESC"
		}
		orderBy[i] = fmt.Sprintf("%s %s", b.dialect.QuoteIdent(o.column), dir)
	}
	if len(orderBy) == 0 && b.dialect == DialectMSSQL && (b.limit != nil || b.offset != nil) {
		// OFFSET/FETCH is only legal after an ORDER BY in SQL Server.
		orderBy = append(orderBy, "(SELECT NULL)")
	}
	if len(orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orderBy, ", "))
	}

	b.writeRowLimit(&sb)

	return sb.String(), args, nil
}

func (b *SelectBuilder) writeRowLimit(sb *strings.Builder) {
	switch b.dialect {
	case DialectPostgres, DialectMySQL:
		if b.limit != nil {
			fmt.Fprintf(sb, " LIMIT %d", *b.limit)
		}
		if b.offset != nil {
			fmt.Fprintf(sb, " OFFSET %d", *b.offset)
		}
	case DialectMSSQL:
		if b.limit == nil && b.offset == nil {
			return
		}
		offset := 0
		if b.offset != nil {
			offset = *b.offset
		}
		fmt.Fprintf(sb, " OFFSET %d ROWS", offset)
		if b.limit != nil {
			fmt.Fprintf(sb, " FETCH NEXT %d ROWS ONLY", *b.limit)
		}
	default:
		if b.offset != nil {
			fmt.Fprintf(sb, " OFFSET %d ROWS", *b.offset)
		}
		if b.limit != nil {
			fmt.Fprintf(sb, " FETCH FIRST %d ROWS ONLY", *b.limit)
		}
	}
}
