//go:build integration

package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/fsarwari/pgCompare/internal/database"
	pgdriver "github.com/fsarwari/pgCompare/internal/database/postgres"
	"github.com/fsarwari/pgCompare/internal/datatype"
	"github.com/fsarwari/pgCompare/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const fixtureDDL = `
CREATE SCHEMA app;
CREATE TABLE app.orders (
    id          bigint PRIMARY KEY,
    "Customer"  varchar(40) NOT NULL,
    amount      numeric(12,2),
    paid        boolean,
    placed_at   timestamptz,
    receipt     bytea,
    note        text
);
INSERT INTO app.orders VALUES (1, 'ACME', 12.50, true, '2024-03-01 10:20:30+00', '\x00ff', '  hi  ');
`

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("colmap"),
		postgres.WithUsername("colmap"),
		postgres.WithPassword("colmap"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, fixtureDDL)
	require.NoError(t, err)

	return dsn
}

func TestPostgresCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	dsn := startPostgres(t)
	ctx := context.Background()

	db, err := pgdriver.New(ctx, database.DefaultConfig(database.DriverPostgres, dsn))
	require.NoError(t, err)
	defer db.Close()

	f := NewFetcher(StaticRoles{"target": "postgres"}, Options{Logger: logger.Nop()})

	cols, err := f.FetchColumns(ctx, db, "app", "orders", "target")
	require.NoError(t, err)
	require.Len(t, cols, 7)

	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "int8", cols[0].DataType)
	assert.True(t, cols[0].PrimaryKey)
	assert.Equal(t, datatype.Numeric, cols[0].DataClass)

	assert.Equal(t, "Customer", cols[1].Name)
	assert.True(t, cols[1].PreserveCase)
	assert.False(t, cols[1].Nullable)
	assert.Equal(t, 40, cols[1].DataLength)

	assert.Equal(t, 12, cols[2].DataPrecision)
	assert.Equal(t, 2, cols[2].DataScale)
	assert.Equal(t, datatype.Boolean, cols[3].DataClass)

	tables, err := f.ListTables(ctx, db, "app", "target")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, tables)

	rows, err := f.Preview(ctx, db, "app", "orders", "target", cols, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ACME", rows[0]["Customer"])
	assert.Equal(t, "1", rows[0]["paid"])
	assert.Equal(t, "03012024102030", rows[0]["placed_at"])
	assert.Equal(t, "hi", rows[0]["note"])
	assert.Equal(t, "1.2500000000e+01", rows[0]["amount"])
}
