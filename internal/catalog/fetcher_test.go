package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fsarwari/pgCompare/internal/column"
	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/database/dbtest"
	"github.com/fsarwari/pgCompare/internal/datatype"
	"github.com/fsarwari/pgCompare/internal/engine"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogCols = []string{"column_name", "data_type", "data_length", "data_precision", "data_scale", "nullable", "pk"}

func catalogRow(name, dataType string, nullable, pk string) []any {
	return []any{name, dataType, int64(0), int64(0), int64(0), nullable, pk}
}

type logEntry struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
	Column    string `json:"column"`
	DataType  string `json:"dataType"`
	Schema    string `json:"schema"`
	Table     string `json:"table"`
	Role      string `json:"role"`
	Engine    string `json:"engine"`
}

func newTestFetcher(t *testing.T, roles RoleResolver, strict bool) (*Fetcher, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "debug", Format: "json", Output: &buf})
	return NewFetcher(roles, Options{Strict: strict, Logger: log}), &buf
}

func entries(t *testing.T, buf *bytes.Buffer, level string) []logEntry {
	t.Helper()
	var out []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e logEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func rowsDB(rows *dbtest.Rows) *dbtest.DB {
	return &dbtest.DB{QueryFunc: func(string, ...any) (database.Rows, error) { return rows, nil }}
}

func TestFetchColumns_PostgresScenario(t *testing.T) {
	f, buf := newTestFetcher(t, StaticRoles{"target": "postgres"}, false)
	rows := dbtest.NewRows(catalogCols,
		[]any{"id", "int", int64(4), int64(32), int64(0), "N", "Y"},
		catalogRow("name", "varchar", "Y", "N"),
	)
	db := rowsDB(rows)

	cols, err := f.FetchColumns(context.Background(), db, "public", "t", "target")
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, datatype.Numeric, cols[0].DataClass)
	assert.True(t, cols[0].Supported)
	assert.True(t, cols[0].PrimaryKey)
	assert.False(t, cols[0].Nullable)
	assert.Equal(t, 4, cols[0].DataLength)
	assert.Equal(t, 32, cols[0].DataPrecision)
	assert.NotEmpty(t, cols[0].ValueExpression)

	assert.Equal(t, "name", cols[1].Name)
	assert.Equal(t, datatype.Character, cols[1].DataClass)
	assert.True(t, cols[1].Supported)
	assert.True(t, cols[1].Nullable)
	assert.False(t, cols[1].PrimaryKey)
	assert.NotEmpty(t, cols[1].ValueExpression)

	pg := engine.NewRegistry(engine.Options{}).Get(engine.Postgres)
	require.Len(t, db.Calls, 1)
	assert.Equal(t, pg.ColumnsSQL, db.Calls[0].SQL)
	assert.Equal(t, []any{"public", "t"}, db.Calls[0].Args)
	assert.True(t, rows.Closed())
	assert.Empty(t, entries(t, buf, "warn"))
	assert.Empty(t, entries(t, buf, "error"))
}

func TestFetchColumns_UnsupportedTypeWarnsOnce(t *testing.T) {
	f, buf := newTestFetcher(t, StaticRoles{"target": "mssql"}, false)
	db := rowsDB(dbtest.NewRows(catalogCols,
		catalogRow("id", "int", "N", "Y"),
		catalogRow("node", "hierarchyid", "Y", "N"),
	))

	cols, err := f.FetchColumns(context.Background(), db, "dbo", "org", "target")
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.False(t, cols[1].Supported)
	assert.Equal(t, datatype.Character, cols[1].DataClass)
	assert.NotEmpty(t, cols[1].ValueExpression)

	warns := entries(t, buf, "warn")
	require.Len(t, warns, 1)
	assert.Equal(t, "node", warns[0].Column)
	assert.Equal(t, "hierarchyid", warns[0].DataType)
	assert.Equal(t, "column-fetch", warns[0].Component)
}

func TestFetchColumns_EveryUnsupportedColumnWarned(t *testing.T) {
	f, buf := newTestFetcher(t, StaticRoles{"source": "mysql"}, false)
	var data [][]any
	unsupported := datatype.Names(datatype.Unsupported)
	for i, typ := range unsupported {
		data = append(data, catalogRow("c"+string(rune('a'+i)), strings.ToUpper(typ), "Y", "N"))
	}
	data = append(data, catalogRow("ok", "text", "Y", "N"))

	cols, err := f.FetchColumns(context.Background(), rowsDB(dbtest.NewRows(catalogCols, data...)), "s", "t", "source")
	require.NoError(t, err)
	require.Len(t, cols, len(unsupported)+1)
	assert.Len(t, column.Unsupported(cols), len(unsupported))
	assert.Len(t, entries(t, buf, "warn"), len(unsupported))
}

func TestFetchColumns_UnknownRoleFallsBackToPostgres(t *testing.T) {
	f, buf := newTestFetcher(t, StaticRoles{"target": "sybase"}, false)
	db := rowsDB(dbtest.NewRows(catalogCols, catalogRow("Name", "varchar", "Y", "N")))

	cols, err := f.FetchColumns(context.Background(), db, "public", "t", "target")
	require.NoError(t, err)
	require.Len(t, cols, 1)

	pg := engine.NewRegistry(engine.Options{}).Get(engine.Postgres)
	assert.Equal(t, pg.ColumnsSQL, db.Calls[0].SQL)
	// postgres folds to lower case, so a mixed-case name must be preserved.
	assert.True(t, cols[0].PreserveCase)
	assert.Equal(t, pg.Builder.BuildValueExpression(&cols[0]), cols[0].ValueExpression)

	warns := entries(t, buf, "warn")
	require.Len(t, warns, 1)
	assert.Equal(t, "target", warns[0].Role)
	assert.Equal(t, "sybase", warns[0].Engine)
}

func TestFetchColumns_StrictUnknownEngine(t *testing.T) {
	f, _ := newTestFetcher(t, StaticRoles{}, true)
	db := &dbtest.DB{}

	cols, err := f.FetchColumns(context.Background(), db, "public", "t", "nobody")
	require.Error(t, err)
	assert.True(t, errs.IsUnknownEngine(err))
	assert.Empty(t, cols)
	assert.Empty(t, db.Calls)
}

func TestFetchColumns_FailureAfterTwoRows(t *testing.T) {
	f, buf := newTestFetcher(t, StaticRoles{"source": "oracle"}, false)
	rows := dbtest.NewRows(catalogCols,
		catalogRow("ID", "number", "N", "Y"),
		catalogRow("ENAME", "varchar2", "Y", "N"),
		catalogRow("SAL", "number", "Y", "N"),
	)
	rows.FailAfter = 2
	rows.IterErr = errs.New(errs.ErrKindConnectionFailed, "connection reset")

	cols, err := f.FetchColumns(context.Background(), rowsDB(rows), "HR", "EMP", "source")
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
	require.Len(t, cols, 2)
	assert.Equal(t, "ID", cols[0].Name)
	assert.Equal(t, "ENAME", cols[1].Name)

	errorsLogged := entries(t, buf, "error")
	require.Len(t, errorsLogged, 1)
	assert.Equal(t, "HR", errorsLogged[0].Schema)
	assert.Equal(t, "EMP", errorsLogged[0].Table)
	assert.True(t, rows.Closed())
}

func TestFetchColumns_QueryError(t *testing.T) {
	f, buf := newTestFetcher(t, StaticRoles{"source": "db2"}, false)
	db := &dbtest.DB{QueryFunc: func(string, ...any) (database.Rows, error) {
		return nil, errors.New("SQL0204N not found")
	}}

	cols, err := f.FetchColumns(context.Background(), db, "S", "T", "source")
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
	assert.NotNil(t, cols)
	assert.Empty(t, cols)
	assert.Len(t, entries(t, buf, "error"), 1)
}

func TestFetchColumns_ScanError(t *testing.T) {
	f, buf := newTestFetcher(t, StaticRoles{"source": "postgres"}, false)
	// Too few values for the seven scan targets.
	db := rowsDB(dbtest.NewRows(catalogCols, []any{"id", "int"}))

	cols, err := f.FetchColumns(context.Background(), db, "public", "t", "source")
	require.Error(t, err)
	assert.Empty(t, cols)
	assert.Len(t, entries(t, buf, "error"), 1)
}

func TestFetchColumns_EmptyTable(t *testing.T) {
	f, _ := newTestFetcher(t, StaticRoles{"source": "postgres"}, false)

	cols, err := f.FetchColumns(context.Background(), rowsDB(dbtest.NewRows(catalogCols)), "public", "empty", "source")
	require.NoError(t, err)
	assert.NotNil(t, cols)
	assert.Empty(t, cols)
}

func TestFetchColumns_NullSizes(t *testing.T) {
	f, _ := newTestFetcher(t, StaticRoles{"source": "oracle"}, false)
	db := rowsDB(dbtest.NewRows(catalogCols, []any{"NOTE", "clob", nil, nil, nil, "Y", "N"}))

	cols, err := f.FetchColumns(context.Background(), db, "HR", "T", "source")
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Zero(t, cols[0].DataLength)
	assert.Zero(t, cols[0].DataPrecision)
	assert.Zero(t, cols[0].DataScale)
	assert.False(t, cols[0].PreserveCase)
}

func TestFetchColumns_Idempotent(t *testing.T) {
	f, _ := newTestFetcher(t, RoleResolverFunc(func(string) string { return "mysql" }), false)
	data := [][]any{
		catalogRow("id", "bigint", "N", "Y"),
		catalogRow("Created", "datetime", "Y", "N"),
		catalogRow("payload", "blob", "Y", "N"),
	}
	db := &dbtest.DB{QueryFunc: func(string, ...any) (database.Rows, error) {
		return dbtest.NewRows(catalogCols, data...), nil
	}}

	first, err := f.FetchColumns(context.Background(), db, "app", "t", "any")
	require.NoError(t, err)
	second, err := f.FetchColumns(context.Background(), db, "app", "t", "any")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFetchColumns_DestinationDecidesExpressions(t *testing.T) {
	f, _ := newTestFetcher(t, StaticRoles{"source": "postgres", "target": "oracle"}, false)
	data := []any{"amount", "numeric", int64(0), int64(10), int64(2), "Y", "N"}
	db := &dbtest.DB{QueryFunc: func(string, ...any) (database.Rows, error) {
		return dbtest.NewRows(catalogCols, data), nil
	}}

	src, err := f.FetchColumns(context.Background(), db, "s", "t", "source")
	require.NoError(t, err)
	dst, err := f.FetchColumns(context.Background(), db, "s", "t", "target")
	require.NoError(t, err)

	assert.Contains(t, src[0].ValueExpression, "coalesce(")
	assert.Contains(t, dst[0].ValueExpression, "nvl(")
	assert.False(t, src[0].PreserveCase)
	assert.True(t, dst[0].PreserveCase)
}

func TestProfileFor_CatalogFromSourceExpressionsFromDest(t *testing.T) {
	f, _ := newTestFetcher(t, StaticRoles{"source": "oracle", "target": "postgres"}, false)

	p, err := f.ProfileFor("source", "target")
	require.NoError(t, err)
	assert.Equal(t, engine.Postgres, p.Engine)
	assert.Contains(t, p.ColumnsSQL, "all_tab_columns")
	assert.Contains(t, p.TablesSQL, ":1")
	assert.Equal(t, database.DialectOracle, p.Dialect)

	db := rowsDB(dbtest.NewRows(catalogCols, catalogRow("AMOUNT", "NUMBER", "Y", "N")))
	cols, err := f.Fetch(context.Background(), db, "HR", "EMP", p)
	require.NoError(t, err)
	require.Len(t, db.Calls, 1)
	assert.NotContains(t, db.Calls[0].SQL, "pg_catalog")
	assert.Contains(t, cols[0].ValueExpression, "coalesce(")
	assert.True(t, cols[0].PreserveCase)
}

func TestProfileFor_SameRole(t *testing.T) {
	f, _ := newTestFetcher(t, StaticRoles{"source": "mysql"}, false)

	for _, dest := range []string{"", "source"} {
		p, err := f.ProfileFor("source", dest)
		require.NoError(t, err)
		assert.Equal(t, engine.MySQL, p.Engine)
		assert.Equal(t, database.DialectMySQL, p.Dialect)
	}
}

func TestProfileFor_StrictUnknownDest(t *testing.T) {
	f, _ := newTestFetcher(t, StaticRoles{"source": "oracle", "target": "sybase"}, true)

	_, err := f.ProfileFor("source", "target")
	assert.True(t, errs.IsUnknownEngine(err))
}
