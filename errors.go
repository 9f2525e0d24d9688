package ddlinfer

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error messages and error creation functions for consistency
var (
	// ErrConfiguration indicates a missing dialect or, at emission time, a missing table name
	ErrConfiguration = errors.New("ddlinfer: configuration error")

	// ErrUnknownContentType indicates that the format of a resource could not be determined.
	// Generate recovers from it by switching to the general backend.
	ErrUnknownContentType = errors.New("ddlinfer: unknown content type")

	// ErrUnresolvableResource indicates that neither the path nor the data of a resource yields bytes
	ErrUnresolvableResource = errors.New("ddlinfer: unresolvable resource")

	// ErrUnsupportedBackend indicates a backend name other than direct or general
	ErrUnsupportedBackend = errors.New("ddlinfer: unsupported backend")

	// ErrGeneratorState indicates that a generator was used after it finished or failed
	ErrGeneratorState = errors.New("ddlinfer: generator is not reusable")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("ddlinfer: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}
