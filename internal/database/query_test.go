package database

import (
	"testing"

	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect_Placeholder(t *testing.T) {
	assert.Equal(t, "$2", DialectPostgres.Placeholder(2))
	assert.Equal(t, "?", DialectMySQL.Placeholder(2))
	assert.Equal(t, ":2", DialectOracle.Placeholder(2))
	assert.Equal(t, "@p2", DialectMSSQL.Placeholder(2))
	assert.Equal(t, "?", DialectDB2.Placeholder(2))
}

func TestSelectBuilder_Build(t *testing.T) {
	tests := []struct {
		name     string
		builder  *SelectBuilder
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "select star",
			builder: Select("", "emp", DialectPostgres),
			wantSQL: "SELECT * FROM emp",
		},
		{
			name: "postgres columns where order limit",
			builder: Select("hr", "emp", DialectPostgres).
				Expr("id", "").
				Expr("upper(name)", "Name").
				Where("dept", "=", 10).
				Where("status", "like", "A%").
				OrderBy("id", Desc).
				Limit(5).
				Offset(10),
			wantSQL:  `SELECT id, upper(name) AS "Name" FROM hr.emp WHERE dept = $1 AND status LIKE $2 ORDER BY id DESC LIMIT 5 OFFSET 10`,
			wantArgs: []any{10, "A%"},
		},
		{
			name: "oracle expressions",
			builder: Select("HR", "EMP", DialectOracle).
				Expr(`nvl(trim(NAME),' ')`, "NAME").
				Where("DEPT", "=", 10).
				Limit(3),
			wantSQL:  `SELECT nvl(trim(NAME),' ') AS NAME FROM HR.EMP WHERE DEPT = :1 FETCH FIRST 3 ROWS ONLY`,
			wantArgs: []any{10},
		},
		{
			name:    "mysql quoting",
			builder: Select("shop", "order", DialectMySQL).Expr("id", "desc"),
			wantSQL: "SELECT id AS `desc` FROM shop.`order`",
		},
		{
			name:    "mssql limit without order",
			builder: Select("dbo", "emp", DialectMSSQL).Expr("id", "").Limit(2),
			wantSQL: "SELECT id FROM dbo.emp ORDER BY (SELECT NULL) OFFSET 0 ROWS FETCH NEXT 2 ROWS ONLY",
		},
		{
			name:    "db2 offset and limit",
			builder: Select("APP", "EMP", DialectDB2).Offset(4).Limit(2),
			wantSQL: "SELECT * FROM APP.EMP OFFSET 4 ROWS FETCH FIRST 2 ROWS ONLY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.builder.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSelectBuilder_RejectsBadInput(t *testing.T) {
	_, _, err := Select("hr", "emp", DialectPostgres).Where("id", "; DROP", 1).Build()
	assert.True(t, errs.IsInvalidInput(err))

	_, _, err = Select("hr", "", DialectPostgres).Build()
	assert.True(t, errs.IsInvalidInput(err))

	_, _, err = Select("hr", "emp", DialectPostgres).Limit(-1).Build()
	assert.True(t, errs.IsInvalidInput(err))
}
