package model

import "fmt"

// Field is a described column of a table schema.
type Field struct {
	// Name is the column name as found in the source header.
	Name string
	// Type is the logical column type.
	Type ColumnType
	// Required marks the column NOT NULL.
	Required bool
}

// Schema is the described structure of a table: ordered fields plus an optional primary key.
type Schema struct {
	Fields     []Field
	PrimaryKey []string
}

// NewSchema builds a schema from inferred column information.
// When requireComplete is set, columns without empty values are marked required.
func NewSchema(columns []ColumnInfo, requireComplete bool) *Schema {
	fields := make([]Field, 0, len(columns))
	for _, c := range columns {
		fields = append(fields, Field{
			Name:     c.Name,
			Type:     c.Type,
			Required: requireComplete && !c.Nullable,
		})
	}
	return &Schema{Fields: fields}
}

// Field returns a pointer to the named field, or nil.
func (s *Schema) Field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// SetPrimaryKey declares the named column as the primary key and marks it required.
func (s *Schema) SetPrimaryKey(name string) error {
	f := s.Field(name)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	f.Required = true
	s.PrimaryKey = []string{name}
	return nil
}

// IsPrimaryKey reports whether the named column is part of the primary key.
func (s *Schema) IsPrimaryKey(name string) bool {
	for _, pk := range s.PrimaryKey {
		if pk == name {
			return true
		}
	}
	return false
}
