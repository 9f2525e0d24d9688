package ddl

import (
	"context"
	"strings"

	"github.com/nao1215/ddlinfer/domain/model"
)

// builderDialect renders statements for dialects atlas has no planner for.
type builderDialect struct {
	name         string
	types        map[model.ColumnType]string
	fallback     string
	dropIfExists bool
}

func newCrateDialect() *builderDialect {
	return &builderDialect{
		name: "crate",
		types: map[model.ColumnType]string{
			model.ColumnTypeInteger:  "BIGINT",
			model.ColumnTypeReal:     "DOUBLE PRECISION",
			model.ColumnTypeBoolean:  "BOOLEAN",
			model.ColumnTypeDatetime: "TIMESTAMP WITH TIME ZONE",
			model.ColumnTypeDate:     "TIMESTAMP WITHOUT TIME ZONE",
			model.ColumnTypeObject:   "OBJECT(DYNAMIC)",
		},
		fallback:     "TEXT",
		dropIfExists: true,
	}
}

func newANSIDialect() *builderDialect {
	return &builderDialect{
		name: "ansi",
		types: map[model.ColumnType]string{
			model.ColumnTypeInteger:  "BIGINT",
			model.ColumnTypeReal:     "DOUBLE PRECISION",
			model.ColumnTypeBoolean:  "BOOLEAN",
			model.ColumnTypeDatetime: "TIMESTAMP",
			model.ColumnTypeDate:     "DATE",
			model.ColumnTypeTime:     "TIME",
		},
		fallback: "VARCHAR",
	}
}

// Name implements Dialect.
func (d *builderDialect) Name() string {
	return d.name
}

// QuoteIdent implements Dialect.
func (d *builderDialect) QuoteIdent(name string) string {
	return quoteWith(name, `"`)
}

func (d *builderDialect) columnType(ct model.ColumnType) string {
	if t, ok := d.types[ct]; ok {
		return t
	}
	return d.fallback
}

// CreateTable implements Dialect. One column per line, primary key constraint last:
//
//	CREATE TABLE "basic" (
//		"id" BIGINT NOT NULL,
//		"name" TEXT,
//		PRIMARY KEY ("id")
//	)
func (d *builderDialect) CreateTable(_ context.Context, t *Table) ([]string, error) {
	lines := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		line := "\t" + d.QuoteIdent(c.Name) + " " + d.columnType(c.Type)
		if !c.Nullable {
			line += " NOT NULL"
		}
		lines = append(lines, line)
	}
	if len(t.PrimaryKey) > 0 {
		keys := make([]string, 0, len(t.PrimaryKey))
		for _, pk := range t.PrimaryKey {
			keys = append(keys, d.QuoteIdent(pk))
		}
		lines = append(lines, "\tPRIMARY KEY ("+strings.Join(keys, ", ")+")")
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(d.QuoteIdent(t.Name))
	b.WriteString(" (\n")
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	return []string{b.String()}, nil
}

// DropTable implements Dialect.
func (d *builderDialect) DropTable(_ context.Context, t *Table) ([]string, error) {
	if d.dropIfExists {
		return []string{"DROP TABLE IF EXISTS " + d.QuoteIdent(t.Name)}, nil
	}
	return []string{"DROP TABLE " + d.QuoteIdent(t.Name)}, nil
}
