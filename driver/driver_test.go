package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestNewDriver(t *testing.T) {
	t.Parallel()

	t.Run("Create new driver", func(t *testing.T) {
		t.Parallel()

		d := NewDriver()
		if d == nil {
			t.Error("NewDriver() returned nil")
		}
	})
}

func TestDriverOpen(t *testing.T) {
	t.Parallel()

	d := NewDriver()

	tests := []struct {
		name    string
		dsn     string
		wantErr error
	}{
		{name: "Crate dialect", dsn: "crate"},
		{name: "Mixed case dialect", dsn: " SQLite "},
		{name: "Empty dialect", dsn: "", wantErr: ErrNoDialect},
		{name: "Blank dialect", dsn: "   ", wantErr: ErrNoDialect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conn, err := d.Open(tt.dsn)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer conn.Close()

			c, ok := conn.(*Connection)
			require.True(t, ok, "connection is not a ddlmock connection")
			assert.NotEmpty(t, c.Dialect())
		})
	}
}

func TestDriverOpenConnector(t *testing.T) {
	t.Parallel()

	d := NewDriver()
	connector, err := d.OpenConnector("postgres")
	require.NoError(t, err)

	// Test that connector returns the same driver
	if connector.Driver() != d {
		t.Error("Connector.Driver() returned different driver")
	}
}

func TestRegisteredDriver(t *testing.T) {
	t.Parallel()

	db, err := sql.Open(DriverName, "crate")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(t.Context(), `CREATE TABLE "t" ("id" BIGINT)`)
	require.NoError(t, err)

	_, err = db.QueryContext(t.Context(), `SELECT 1`)
	require.ErrorIs(t, err, ErrQueryNotSupported)
}

func TestConnectionRecordsStatements(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	db := sql.OpenDB(NewConnector("crate", rec))
	defer db.Close()

	ctx := t.Context()
	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	statements := []string{
		`DROP TABLE IF EXISTS "basic"`,
		`CREATE TABLE "basic" ("id" BIGINT NOT NULL)`,
	}
	for _, stmt := range statements {
		_, err := conn.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	got, err := CapturedStatements(conn)
	require.NoError(t, err)
	assert.Equal(t, statements, got)
	assert.Equal(t, statements, rec.Statements())

	rec.Reset()
	assert.Empty(t, rec.Statements())
}

func TestConnectionExecErrors(t *testing.T) {
	t.Parallel()

	conn, err := NewConnector("crate", nil).Connect(t.Context())
	require.NoError(t, err)

	c, ok := conn.(*Connection)
	require.True(t, ok)

	_, err = c.ExecContext(t.Context(), "  ", nil)
	require.ErrorIs(t, err, ErrEmptyStatement)

	_, err = c.ExecContext(t.Context(), "INSERT INTO t VALUES (?)", []driver.NamedValue{{Ordinal: 1, Value: int64(1)}})
	require.ErrorIs(t, err, ErrArgumentsNotSupported)

	_, err = c.QueryContext(t.Context(), "SELECT 1", nil)
	require.ErrorIs(t, err, ErrQueryNotSupported)

	assert.Empty(t, c.Statements())

	require.NoError(t, c.Close())
	_, err = c.ExecContext(t.Context(), "SELECT 1", nil)
	require.ErrorIs(t, err, driver.ErrBadConn)
}

func TestSQLiteVerification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dialect string
		query   string
		wantErr error
	}{
		{name: "valid sqlite DDL", dialect: DialectSQLite, query: "CREATE TABLE `t` (`id` integer NOT NULL, PRIMARY KEY (`id`))"},
		{name: "invalid sqlite DDL", dialect: DialectSQLite, query: "CREATE TABLE", wantErr: ErrVerificationFailed},
		{name: "other dialects are not replayed", dialect: "crate", query: "CREATE TABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := NewRecorder()
			conn, err := NewConnector(tt.dialect, rec, WithSQLiteVerification()).Connect(t.Context())
			require.NoError(t, err)
			defer conn.Close()

			execer, ok := conn.(driver.ExecerContext)
			require.True(t, ok)

			_, err = execer.ExecContext(t.Context(), tt.query, nil)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, rec.Statements())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.query}, rec.Statements())
		})
	}
}

func TestConnectionTransactions(t *testing.T) {
	t.Parallel()

	conn, err := NewConnector("crate", nil).Connect(t.Context())
	require.NoError(t, err)
	defer conn.Close()

	c, ok := conn.(*Connection)
	if !ok {
		t.Fatal("connection is not a ddlmock connection")
	}

	t.Run("BeginTx with commit", func(t *testing.T) {
		tx, err := c.BeginTx(t.Context(), driver.TxOptions{})
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
	})

	t.Run("Deprecated Begin method", func(t *testing.T) {
		tx, err := c.Begin()
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
	})
}

func TestStmtExec(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	db := sql.OpenDB(NewConnector("ansi", rec))
	defer db.Close()

	stmt, err := db.PrepareContext(t.Context(), `CREATE TABLE "t" ("a" VARCHAR)`)
	require.NoError(t, err)
	defer stmt.Close()

	_, err = stmt.ExecContext(t.Context())
	require.NoError(t, err)

	_, err = stmt.QueryContext(t.Context())
	require.ErrorIs(t, err, ErrQueryNotSupported)

	assert.Equal(t, []string{`CREATE TABLE "t" ("a" VARCHAR)`}, rec.Statements())
}

func TestCapturedStatementsForeignConnection(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	conn, err := db.Conn(t.Context())
	require.NoError(t, err)
	defer conn.Close()

	_, err = CapturedStatements(conn)
	require.ErrorIs(t, err, ErrNotCapturingConnection)
}

func TestRecorderConcurrentAccess(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	db := sql.OpenDB(NewConnector("crate", rec))
	defer db.Close()

	const workers = 8
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := db.ExecContext(context.Background(), fmt.Sprintf(`CREATE TABLE "t%d" ("id" BIGINT)`, i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, rec.Statements(), workers)
}
