package model

import (
	"path/filepath"
	"strings"
)

// Table represents tabular contents as a database table structure.
type Table struct {
	// name is table name derived from file path.
	name string
	// header is table header.
	header Header
	// records is table records.
	records []Record
}

// NewTable create new Table.
func NewTable(
	name string,
	header Header,
	records []Record,
) *Table {
	return &Table{
		name:    name,
		header:  header,
		records: records,
	}
}

// Name return table name.
func (t *Table) Name() string {
	return t.name
}

// Header return table header.
func (t *Table) Header() Header {
	return t.header
}

// Records return table records.
func (t *Table) Records() []Record {
	return t.records
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Column returns every value of the named column, or false when the column does not exist.
func (t *Table) Column(name string) ([]string, bool) {
	i := t.header.Index(name)
	if i < 0 {
		return nil, false
	}
	return columnValues(t.records, i), true
}

// Head returns a copy of the table limited to its first n records.
func (t *Table) Head(n int) *Table {
	if n < 0 || n >= len(t.records) {
		n = len(t.records)
	}
	records := make([]Record, n)
	copy(records, t.records[:n])
	return NewTable(t.name, t.header, records)
}

// Equal compare Table.
func (t *Table) Equal(t2 *Table) bool {
	if t.Name() != t2.Name() {
		return false
	}
	if !t.header.Equal(t2.header) {
		return false
	}
	if len(t.Records()) != len(t2.Records()) {
		return false
	}
	for i, record := range t.Records() {
		if !record.Equal(t2.Records()[i]) {
			return false
		}
	}
	return true
}

// TableNameFromPath returns the file stem: the base name without its
// compression and format extensions.
func TableNameFromPath(path string) string {
	if path == "" {
		return ""
	}
	fileName := filepath.Base(path)
	fileName = TrimCompressionExtension(fileName)
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if stem == "" {
		// dotfiles such as ".csv" keep their name
		return fileName
	}
	return stem
}

// SanitizeTableName replaces characters that are not valid in an unquoted SQL identifier.
func SanitizeTableName(name string) string {
	result := strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(strings.TrimSpace(name))

	var sanitized strings.Builder
	for _, r := range result {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '_' {
			sanitized.WriteRune(r)
		}
	}

	finalResult := sanitized.String()

	// Ensure it doesn't start with a number
	if len(finalResult) > 0 && finalResult[0] >= '0' && finalResult[0] <= '9' {
		finalResult = "table_" + finalResult
	}
	if finalResult == "" {
		finalResult = "table"
	}
	return finalResult
}
