package driver

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxColumnCount defines the maximum number of columns allowed in a table
const MaxColumnCount = 2000

// MaxValueLength defines the maximum length of a single field value
const MaxValueLength = 65536

// MaxIdentifierLength defines the maximum length of a table or column name
const MaxIdentifierLength = 255

var (
	// ErrTooManyColumns is returned when a table has too many columns
	ErrTooManyColumns = errors.New("too many columns")

	// ErrInvalidIdentifier is returned when an SQL identifier is invalid
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")

	// ErrEmptyStatement is returned when a blank statement is executed
	ErrEmptyStatement = errors.New("empty statement")
)

// ValidateColumnCount checks if the number of columns is within acceptable limits
func ValidateColumnCount(columnCount int) error {
	if columnCount > MaxColumnCount {
		return ErrTooManyColumns
	}
	return nil
}

// ValidateIdentifier checks that name can be quoted as a table or column name.
// Quoting handles every printable character, so only blank names, NUL bytes,
// invalid UTF-8 and overly long names are rejected.
func ValidateIdentifier(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidIdentifier
	}
	if strings.Contains(name, "\x00") || !utf8.ValidString(name) {
		return ErrInvalidIdentifier
	}
	if len(name) > MaxIdentifierLength {
		return ErrInvalidIdentifier
	}
	return nil
}

// ValidateStatement rejects statements the capturing engine should never record.
func ValidateStatement(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyStatement
	}
	return nil
}

// ValidateFieldValue validates and sanitizes field values
func ValidateFieldValue(value string) string {
	// Truncate extremely long values
	if len(value) > MaxValueLength {
		value = value[:MaxValueLength]
	}

	// Remove null bytes
	value = strings.ReplaceAll(value, "\x00", "")

	return value
}

// SanitizeForLog removes sensitive information from strings before logging
func SanitizeForLog(input string) string {
	// Remove common sensitive patterns
	sensitive := []string{
		"password", "passwd", "secret", "token",
		"credential", "private", "ssh", "rsa",
	}

	result := input
	for _, pattern := range sensitive {
		if strings.Contains(strings.ToLower(result), pattern) {
			return "[REDACTED]"
		}
	}

	// Limit length to prevent log flooding
	const maxLogLength = 200
	if len(result) > maxLogLength {
		result = result[:maxLogLength] + "..."
	}

	return result
}
