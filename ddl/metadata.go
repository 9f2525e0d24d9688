package ddl

import (
	"fmt"
	"sort"
	"sync"
)

// Metadata is a catalog of the table definitions emitted so far.
// Binding lets consecutive emissions detect that a table is declared twice.
type Metadata struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewMetadata creates an empty catalog.
func NewMetadata() *Metadata {
	return &Metadata{tables: make(map[string]*Table)}
}

// Bind records t. A table already bound under the same name is an error
// unless replace is set.
func (m *Metadata) Bind(t *Table, replace bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[t.Name]; ok && !replace {
		return fmt.Errorf("%w: %s", ErrTableExists, t.Name)
	}
	m.tables[t.Name] = t
	return nil
}

// Table returns the bound table named name.
func (m *Metadata) Table(name string) (*Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[name]
	return t, ok
}

// Tables returns the sorted names of the bound tables.
func (m *Metadata) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
