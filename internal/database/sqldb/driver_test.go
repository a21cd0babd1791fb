package sqldb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/go-sql-driver/mysql"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/sijms/go-ora/v2/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverName(t *testing.T) {
	tests := []struct {
		engine database.Driver
		want   string
	}{
		{database.DriverMySQL, "mysql"},
		{database.DriverMSSQL, "sqlserver"},
		{database.DriverOracle, "oracle"},
		{database.DriverDB2, "go_ibm_db"},
	}
	for _, tt := range tests {
		t.Run(string(tt.engine), func(t *testing.T) {
			name, err := DriverName(tt.engine)
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}

	_, err := DriverName(database.DriverPostgres)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestNew_UnregisteredDB2Driver(t *testing.T) {
	_, err := New(context.Background(), database.DefaultConfig(database.DriverDB2, "HOSTNAME=localhost"))
	require.Error(t, err)
	assert.True(t, errs.IsConnectionFailed(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"no rows", sql.ErrNoRows, errs.ErrKindNotFound},
		{"bad conn", driver.ErrBadConn, errs.ErrKindConnectionFailed},
		{"mysql access denied", &mysql.MySQLError{Number: 1045, Message: "Access denied"}, errs.ErrKindPermissionDenied},
		{"mysql unknown table", &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}, errs.ErrKindNotFound},
		{"mysql syntax", &mysql.MySQLError{Number: 1064, Message: "syntax"}, errs.ErrKindQueryFailed},
		{"mssql login failed", mssql.Error{Number: 18456, Message: "Login failed"}, errs.ErrKindPermissionDenied},
		{"mssql invalid object", mssql.Error{Number: 208, Message: "Invalid object name"}, errs.ErrKindNotFound},
		{"mssql cannot open db", mssql.Error{Number: 4060, Message: "Cannot open database"}, errs.ErrKindConnectionFailed},
		{"oracle missing table", &network.OracleError{ErrCode: 942, ErrMsg: "ORA-00942: table or view does not exist"}, errs.ErrKindNotFound},
		{"oracle bad login", &network.OracleError{ErrCode: 1017, ErrMsg: "ORA-01017: invalid username/password"}, errs.ErrKindPermissionDenied},
		{"oracle no privilege", fmt.Errorf("query: %w", &network.OracleError{ErrCode: 1031}), errs.ErrKindPermissionDenied},
		{"oracle cancelled", &network.OracleError{ErrCode: 1013}, errs.ErrKindTimeout},
		{"oracle no listener", &network.OracleError{ErrCode: 12541}, errs.ErrKindConnectionFailed},
		{"oracle syntax", &network.OracleError{ErrCode: 933}, errs.ErrKindQueryFailed},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, errs.ErrKindConnectionFailed},
		{"eof", io.ErrUnexpectedEOF, errs.ErrKindConnectionFailed},
		{"scan conversion", errors.New(`sql: Scan error on column index 2, name "data_length": converting NULL to int64 is unsupported`), errs.ErrKindQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err, "query failed")
			require.NotNil(t, mapped)
			assert.Equal(t, tt.kind, mapped.Kind)
		})
	}

	assert.Nil(t, mapError(nil, "unused"))
}
