package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

// DriverName is the name the capturing driver is registered under.
const DriverName = "ddlmock"

// DialectSQLite is the dialect whose statements can be replayed against SQLite.
const DialectSQLite = "sqlite"

func init() {
	sql.Register(DriverName, NewDriver())
}

// Recorder collects executed statements in order. It is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	statements []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, query)
}

// Statements returns a copy of the recorded statements.
func (r *Recorder) Statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.statements))
	copy(out, r.statements)
	return out
}

// Reset discards all recorded statements.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = nil
}

// Driver implements database/sql/driver.Driver interface for the capturing engine.
type Driver struct{}

// Connector implements database/sql/driver.Connector interface.
// The dsn is the SQL dialect name the statements are written for.
type Connector struct {
	driver   *Driver
	dialect  string
	recorder *Recorder
	verify   bool
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithSQLiteVerification replays sqlite statements against an in-memory SQLite database.
func WithSQLiteVerification() ConnectorOption {
	return func(c *Connector) {
		c.verify = true
	}
}

// Connection implements database/sql/driver.Conn interface.
// All connections of a connector share the connector's Recorder.
type Connection struct {
	dialect  string
	recorder *Recorder
	sqlite   driver.Conn // in-memory SQLite used for verification, nil otherwise
	closed   bool
}

// Transaction implements database/sql/driver.Tx interface.
// Statements are recorded when executed, so commit and rollback have nothing to do.
type Transaction struct{}

// Stmt implements driver.Stmt for a captured statement.
type Stmt struct {
	conn  *Connection
	query string
}

// NewDriver creates a new capturing SQL driver
func NewDriver() *Driver {
	return &Driver{}
}

// NewConnector creates a connector for dialect that records into recorder.
// A nil recorder gets a fresh one.
func NewConnector(dialect string, recorder *Recorder, opts ...ConnectorOption) *Connector {
	if recorder == nil {
		recorder = NewRecorder()
	}
	c := &Connector{
		driver:   NewDriver(),
		dialect:  strings.ToLower(strings.TrimSpace(dialect)),
		recorder: recorder,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open implements driver.Driver interface
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	connector, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector implements driver.DriverContext interface
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrNoDialect
	}
	c := NewConnector(dsn, nil)
	c.driver = d
	return c, nil
}

// Recorder returns the recorder shared by all connections of the connector.
func (c *Connector) Recorder() *Recorder {
	return c.recorder
}

// Connect implements driver.Connector interface
func (c *Connector) Connect(_ context.Context) (driver.Conn, error) {
	conn := &Connection{
		dialect:  c.dialect,
		recorder: c.recorder,
	}
	if c.verify && c.dialect == DialectSQLite {
		sqliteDriver := &sqlite.Driver{}
		sqliteConn, err := sqliteDriver.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory database: %w", err)
		}
		conn.sqlite = sqliteConn
	}
	return conn, nil
}

// Driver implements driver.Connector interface
func (c *Connector) Driver() driver.Driver {
	return c.driver
}

// Dialect returns the dialect the connection captures statements for.
func (conn *Connection) Dialect() string {
	return conn.dialect
}

// Statements returns the statements recorded so far by the connection's recorder.
func (conn *Connection) Statements() []string {
	return conn.recorder.Statements()
}

// CapturedStatements returns the statements recorded behind a pinned *sql.Conn.
func CapturedStatements(conn *sql.Conn) ([]string, error) {
	var statements []string
	err := conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*Connection)
		if !ok {
			return ErrNotCapturingConnection
		}
		statements = c.Statements()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statements, nil
}

// Close implements driver.Conn interface
func (conn *Connection) Close() error {
	conn.closed = true
	if conn.sqlite != nil {
		return conn.sqlite.Close()
	}
	return nil
}

// Begin implements driver.Conn interface (deprecated, use BeginTx instead)
func (conn *Connection) Begin() (driver.Tx, error) {
	return conn.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx implements driver.ConnBeginTx interface
func (conn *Connection) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	if conn.closed {
		return nil, driver.ErrBadConn
	}
	return &Transaction{}, nil
}

// Commit implements driver.Tx interface
func (t *Transaction) Commit() error {
	return nil
}

// Rollback implements driver.Tx interface
func (t *Transaction) Rollback() error {
	return nil
}

// Prepare implements driver.Conn interface (deprecated, use PrepareContext instead)
func (conn *Connection) Prepare(query string) (driver.Stmt, error) {
	return conn.PrepareContext(context.Background(), query)
}

// PrepareContext implements driver.ConnPrepareContext interface
func (conn *Connection) PrepareContext(_ context.Context, query string) (driver.Stmt, error) {
	if conn.closed {
		return nil, driver.ErrBadConn
	}
	return &Stmt{conn: conn, query: query}, nil
}

// ExecContext implements driver.ExecerContext interface
func (conn *Connection) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if conn.closed {
		return nil, driver.ErrBadConn
	}
	if len(args) > 0 {
		return nil, ErrArgumentsNotSupported
	}
	if err := ValidateStatement(query); err != nil {
		return nil, err
	}
	if conn.sqlite != nil {
		if err := conn.replay(ctx, query); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
		}
	}
	conn.recorder.record(query)
	return driver.RowsAffected(0), nil
}

// replay executes query on the in-memory SQLite connection.
func (conn *Connection) replay(ctx context.Context, query string) error {
	execer, ok := conn.sqlite.(driver.ExecerContext)
	if !ok {
		return ErrStmtExecContextNotSupported
	}
	_, err := execer.ExecContext(ctx, query, nil)
	return err
}

// QueryContext implements driver.QueryerContext interface. The capturing engine holds no data.
func (conn *Connection) QueryContext(_ context.Context, _ string, _ []driver.NamedValue) (driver.Rows, error) {
	return nil, ErrQueryNotSupported
}

// Close implements driver.Stmt interface
func (s *Stmt) Close() error {
	return nil
}

// NumInput implements driver.Stmt interface. -1 lets database/sql skip argument counting.
func (s *Stmt) NumInput() int {
	return -1
}

// Exec implements driver.Stmt interface
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	named := make([]driver.NamedValue, len(args))
	for i, arg := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: arg}
	}
	return s.ExecContext(context.Background(), named)
}

// ExecContext implements driver.StmtExecContext interface
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	return s.conn.ExecContext(ctx, s.query, args)
}

// Query implements driver.Stmt interface
func (s *Stmt) Query(_ []driver.Value) (driver.Rows, error) {
	return nil, ErrQueryNotSupported
}
