package ddl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nao1215/ddlinfer/domain/model"
	"github.com/nao1215/ddlinfer/driver"
)

// Dialect renders table definitions for one SQL flavour.
type Dialect interface {
	// Name returns the canonical dialect name.
	Name() string
	// QuoteIdent quotes a table or column name.
	QuoteIdent(name string) string
	// CreateTable returns the statements creating t.
	CreateTable(ctx context.Context, t *Table) ([]string, error)
	// DropTable returns the statements dropping t when it exists.
	DropTable(ctx context.Context, t *Table) ([]string, error)
}

// Column is a table column ready to be rendered.
type Column struct {
	Name     string
	Type     model.ColumnType
	Nullable bool
}

// Table is a table definition ready to be rendered.
type Table struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
}

// NewTable validates s and converts it into a table definition named name.
// Primary key columns are never nullable.
func NewTable(name string, s *model.Schema) (*Table, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingTableName
	}
	if err := driver.ValidateIdentifier(name); err != nil {
		return nil, fmt.Errorf("table %q: %w", name, err)
	}
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumns, name)
	}
	if err := driver.ValidateColumnCount(len(s.Fields)); err != nil {
		return nil, fmt.Errorf("table %q: %w", name, err)
	}

	t := &Table{Name: name, Columns: make([]Column, 0, len(s.Fields))}
	for _, f := range s.Fields {
		if err := driver.ValidateIdentifier(f.Name); err != nil {
			return nil, fmt.Errorf("column %q: %w", f.Name, err)
		}
		t.Columns = append(t.Columns, Column{
			Name:     f.Name,
			Type:     f.Type,
			Nullable: !f.Required && !s.IsPrimaryKey(f.Name),
		})
	}
	for _, pk := range s.PrimaryKey {
		if t.Column(pk) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, pk)
		}
		t.PrimaryKey = append(t.PrimaryKey, pk)
	}
	return t, nil
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether the named column is part of the primary key.
func (t *Table) IsPrimaryKey(name string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == name {
			return true
		}
	}
	return false
}

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]Dialect)
	aliases    = make(map[string]string)
)

// Register makes a dialect available by its name and the given aliases.
// If Register is called twice with the same name or if dialect is nil, it panics.
func Register(dialect Dialect, alias ...string) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	if dialect == nil {
		panic("ddl: Register dialect is nil")
	}
	name := normalizeDialectName(dialect.Name())
	if _, dup := dialects[name]; dup {
		panic("ddl: Register called twice for dialect " + name)
	}
	dialects[name] = dialect
	for _, a := range alias {
		aliases[normalizeDialectName(a)] = name
	}
}

// Lookup returns the dialect registered under name or one of its aliases.
func Lookup(name string) (Dialect, error) {
	key := normalizeDialectName(name)
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	d, ok := dialects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnsupportedDialect, name, strings.Join(dialectNames(), ", "))
	}
	return d, nil
}

// Dialects returns a sorted list of the names of the registered dialects.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	return dialectNames()
}

func dialectNames() []string {
	list := make([]string, 0, len(dialects))
	for name := range dialects {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

func normalizeDialectName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// quoteWith wraps name in quote, doubling embedded quote characters.
func quoteWith(name, quote string) string {
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

func init() {
	Register(newSQLiteDialect(), "sqlite3")
	Register(newPostgresDialect(), "postgresql", "pg")
	Register(newMySQLDialect(), "mariadb")
	Register(newCrateDialect(), "cratedb")
	Register(newANSIDialect(), "generic", "default")
}
