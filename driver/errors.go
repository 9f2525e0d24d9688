package driver

import "errors"

// Predefined errors
var (
	// ErrNoDialect is returned when the data source name does not name a dialect
	ErrNoDialect = errors.New("ddlmock driver: no dialect provided")

	// ErrQueryNotSupported is returned for queries; the capturing engine holds no data
	ErrQueryNotSupported = errors.New("ddlmock driver: queries are not supported")

	// ErrArgumentsNotSupported is returned when a statement is executed with bind arguments
	ErrArgumentsNotSupported = errors.New("ddlmock driver: bind arguments are not supported")

	// ErrStmtExecContextNotSupported is returned when the verification connection does not support ExecContext
	ErrStmtExecContextNotSupported = errors.New("ddlmock driver: statement does not support ExecContext")

	// ErrVerificationFailed is returned when a statement is rejected by the verification database
	ErrVerificationFailed = errors.New("ddlmock driver: statement verification failed")

	// ErrNotCapturingConnection is returned when a connection is not a ddlmock connection
	ErrNotCapturingConnection = errors.New("ddlmock driver: connection is not a ddlmock connection")
)
