// Package model provides the domain model shared by ddlinfer and its collaborators.
package model

import (
	"fmt"
	"strings"
)

// Header is table header.
type Header []string

// NewHeader create new Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Equal compare Header.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Index returns the position of the named column, or -1.
func (h Header) Index(name string) int {
	for i, v := range h {
		if v == name {
			return i
		}
	}
	return -1
}

// Record is a single table row.
type Record []string

// NewRecord create new Record.
func NewRecord(r []string) Record {
	return Record(r)
}

// Equal compare Record.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// Value returns the i-th field, or an empty string for short rows.
func (r Record) Value(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// ColumnType represents the logical column type
type ColumnType int

const (
	// ColumnTypeText represents free text
	ColumnTypeText ColumnType = iota
	// ColumnTypeInteger represents whole numbers
	ColumnTypeInteger
	// ColumnTypeReal represents floating point numbers
	ColumnTypeReal
	// ColumnTypeDatetime represents a date with a time of day
	ColumnTypeDatetime
	// ColumnTypeDate represents a calendar date
	ColumnTypeDate
	// ColumnTypeTime represents a time of day
	ColumnTypeTime
	// ColumnTypeBoolean represents true/false values
	ColumnTypeBoolean
	// ColumnTypeObject represents nested documents (arrays, maps)
	ColumnTypeObject
)

// String returns the logical type name
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeText:
		return "text"
	case ColumnTypeInteger:
		return "integer"
	case ColumnTypeReal:
		return "real"
	case ColumnTypeDatetime:
		return "datetime"
	case ColumnTypeDate:
		return "date"
	case ColumnTypeTime:
		return "time"
	case ColumnTypeBoolean:
		return "boolean"
	case ColumnTypeObject:
		return "object"
	default:
		return "text"
	}
}

// ColumnInfo represents column information with name and inferred type
type ColumnInfo struct {
	Name string
	Type ColumnType
	// Nullable is true when at least one sampled value was empty.
	Nullable bool
}

// ValidateColumnNames checks for duplicate column names and returns error if found.
func ValidateColumnNames(columns []string) error {
	columnsSeen := make(map[string]bool)
	for _, col := range columns {
		trimmedCol := strings.TrimSpace(col)
		if columnsSeen[trimmedCol] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumnName, col)
		}
		columnsSeen[trimmedCol] = true
	}
	return nil
}
