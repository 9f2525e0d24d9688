package ddlinfer

import "strings"

// SQLTarget describes the table to generate.
type SQLTarget struct {
	// Dialect is the target SQL dialect. Required.
	Dialect string
	// TableName is the created table. Derived from the resource path when empty.
	TableName string
	// PrimaryKey is the primary key column. Inferred when nil; never overwritten once set.
	PrimaryKey *string
}

// SQLResult is the SQL text produced by a backend.
type SQLResult struct {
	raw       string
	canonical string
}

// NewSQLResult wraps raw SQL text.
func NewSQLResult(raw string) SQLResult {
	return SQLResult{raw: raw, canonical: Canonicalize(raw)}
}

// Raw returns the SQL exactly as produced.
func (r SQLResult) Raw() string {
	return r.raw
}

// Canonical returns the normalized SQL used for comparisons.
func (r SQLResult) Canonical() string {
	return r.canonical
}

// Equal reports whether both results have the same canonical form.
func (r SQLResult) Equal(other SQLResult) bool {
	return r.canonical == other.canonical
}

// String implements fmt.Stringer
func (r SQLResult) String() string {
	return r.raw
}

// Canonicalize collapses whitespace runs into single spaces and strips trailing
// statement separators.
func Canonicalize(sql string) string {
	s := strings.Join(strings.Fields(sql), " ")
	for {
		trimmed := strings.TrimSpace(strings.TrimSuffix(s, ";"))
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}
