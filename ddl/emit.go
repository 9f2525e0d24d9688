package ddl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nao1215/ddlinfer/domain/model"
	"github.com/nao1215/ddlinfer/driver"
)

// Executor runs a statement. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EmitOptions controls which statements Emit produces and where they run.
type EmitOptions struct {
	// Dialect names the target SQL dialect or one of its aliases.
	Dialect string
	// TableName is the name of the created table.
	TableName string
	// Drops prepends a DROP TABLE statement.
	Drops bool
	// Inserts appends one INSERT statement per record of Records.
	Inserts bool
	// Records are the rows written when Inserts is set. Values are positional.
	Records []model.Record
	// BindMetadata records the table definition in Metadata.
	BindMetadata bool
	// Metadata is the catalog used when BindMetadata is set. A nil catalog gets a fresh one.
	Metadata *Metadata
	// Executor runs the statements instead of the capturing engine.
	// The returned text is then built from the statements sent to it.
	Executor Executor
	// Verify replays sqlite statements against an in-memory SQLite database.
	Verify bool
}

// Emit renders s as SQL for the configured dialect and returns the statements,
// each terminated by a semicolon and separated by a blank line.
func Emit(ctx context.Context, s *model.Schema, opts EmitOptions) (string, error) {
	dialect, err := Lookup(opts.Dialect)
	if err != nil {
		return "", err
	}
	table, err := NewTable(opts.TableName, s)
	if err != nil {
		return "", err
	}
	if opts.BindMetadata {
		md := opts.Metadata
		if md == nil {
			md = NewMetadata()
		}
		if err := md.Bind(table, opts.Drops); err != nil {
			return "", err
		}
	}

	statements, err := Statements(ctx, dialect, table, opts)
	if err != nil {
		return "", err
	}

	if opts.Executor != nil {
		if err := execAll(ctx, opts.Executor, statements); err != nil {
			return "", err
		}
		return Render(statements), nil
	}

	captured, err := capture(ctx, dialect.Name(), statements, opts.Verify)
	if err != nil {
		return "", err
	}
	return Render(captured), nil
}

// Statements builds the drop, create and insert statements for table in order.
func Statements(ctx context.Context, dialect Dialect, table *Table, opts EmitOptions) ([]string, error) {
	var statements []string
	if opts.Drops {
		drops, err := dialect.DropTable(ctx, table)
		if err != nil {
			return nil, err
		}
		statements = append(statements, drops...)
	}
	creates, err := dialect.CreateTable(ctx, table)
	if err != nil {
		return nil, err
	}
	statements = append(statements, creates...)
	if opts.Inserts {
		for _, record := range opts.Records {
			statements = append(statements, insertStatement(dialect, table, record))
		}
	}
	return statements, nil
}

// Render joins statements into one SQL text.
func Render(statements []string) string {
	if len(statements) == 0 {
		return ""
	}
	trimmed := make([]string, 0, len(statements))
	for _, stmt := range statements {
		trimmed = append(trimmed, strings.TrimRight(strings.TrimSpace(stmt), ";"))
	}
	return strings.Join(trimmed, ";\n\n") + ";\n"
}

// capture executes statements on a pinned connection of the capturing engine
// and returns what the engine recorded.
func capture(ctx context.Context, dialect string, statements []string, verify bool) (_ []string, err error) {
	var opts []driver.ConnectorOption
	if verify {
		opts = append(opts, driver.WithSQLiteVerification())
	}
	db := sql.OpenDB(driver.NewConnector(dialect, driver.NewRecorder(), opts...))
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("ddl: failed to open capturing connection: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if err := execAll(ctx, conn, statements); err != nil {
		return nil, err
	}
	return driver.CapturedStatements(conn)
}

func execAll(ctx context.Context, exec Executor, statements []string) error {
	for _, stmt := range statements {
		if _, err := exec.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ddl: failed to execute statement %q: %w", driver.SanitizeForLog(stmt), err)
		}
	}
	return nil
}

func insertStatement(dialect Dialect, table *Table, record model.Record) string {
	columns := make([]string, 0, len(table.Columns))
	values := make([]string, 0, len(table.Columns))
	for i, c := range table.Columns {
		columns = append(columns, dialect.QuoteIdent(c.Name))
		values = append(values, literal(c.Type, record.Value(i)))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		dialect.QuoteIdent(table.Name),
		strings.Join(columns, ", "),
		strings.Join(values, ", "))
}

// literal renders value as a SQL literal for a column of type ct.
// Empty values become NULL; numbers and booleans that parse are left unquoted.
func literal(ct model.ColumnType, value string) string {
	value = driver.ValidateFieldValue(value)
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "NULL"
	}
	switch ct {
	case model.ColumnTypeInteger:
		if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return trimmed
		}
	case model.ColumnTypeReal:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return trimmed
		}
	case model.ColumnTypeBoolean:
		switch strings.ToLower(trimmed) {
		case "true":
			return "TRUE"
		case "false":
			return "FALSE"
		}
	}
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
