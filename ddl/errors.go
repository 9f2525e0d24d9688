package ddl

import "errors"

var (
	// ErrUnsupportedDialect is returned when no dialect is registered under the requested name
	ErrUnsupportedDialect = errors.New("ddl: unsupported dialect")

	// ErrMissingTableName is returned when a table has no name at emission time
	ErrMissingTableName = errors.New("ddl: missing table name")

	// ErrUnknownColumn is returned when a primary key names a column the schema does not have
	ErrUnknownColumn = errors.New("ddl: unknown column")

	// ErrNoColumns is returned when a schema has no fields
	ErrNoColumns = errors.New("ddl: table has no columns")

	// ErrTableExists is returned when a table is bound twice to the same metadata
	ErrTableExists = errors.New("ddl: table already bound to metadata")

	// ErrNilSchema is returned when Emit is called without a schema
	ErrNilSchema = errors.New("ddl: schema is nil")
)
