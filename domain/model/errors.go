package model

import "errors"

var (
	// ErrDuplicateColumnName is returned when a table contains duplicate column names
	ErrDuplicateColumnName = errors.New("duplicate column name")
	// ErrUnknownColumn is returned when a schema operation names a column that does not exist
	ErrUnknownColumn = errors.New("unknown column")
)
