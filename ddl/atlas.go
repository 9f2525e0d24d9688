package ddl

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/nao1215/ddlinfer/domain/model"
)

// atlasDialect plans statements with an atlas migrate.PlanApplier.
// The planners are atlas' offline DefaultPlan values, so no database connection is used.
type atlasDialect struct {
	name  string
	quote string
	plan  migrate.PlanApplier
	// columnType maps a logical column type to the dialect type.
	// primary is set for primary key columns.
	columnType func(ct model.ColumnType, primary bool) schema.Type
}

func newSQLiteDialect() *atlasDialect {
	return &atlasDialect{
		name:  "sqlite",
		quote: "`",
		plan:  sqlite.DefaultPlan,
		columnType: func(ct model.ColumnType, _ bool) schema.Type {
			switch ct {
			case model.ColumnTypeInteger:
				return &schema.IntegerType{T: "integer"}
			case model.ColumnTypeReal:
				return &schema.FloatType{T: "real"}
			case model.ColumnTypeBoolean:
				return &schema.BoolType{T: "bool"}
			case model.ColumnTypeDatetime:
				return &schema.TimeType{T: "datetime"}
			case model.ColumnTypeDate:
				return &schema.TimeType{T: "date"}
			case model.ColumnTypeTime:
				return &schema.TimeType{T: "time"}
			case model.ColumnTypeObject:
				return &schema.JSONType{T: "json"}
			default:
				return &schema.StringType{T: "text"}
			}
		},
	}
}

func newPostgresDialect() *atlasDialect {
	return &atlasDialect{
		name:  "postgres",
		quote: `"`,
		plan:  postgres.DefaultPlan,
		columnType: func(ct model.ColumnType, _ bool) schema.Type {
			switch ct {
			case model.ColumnTypeInteger:
				return &schema.IntegerType{T: "bigint"}
			case model.ColumnTypeReal:
				return &schema.FloatType{T: "double precision"}
			case model.ColumnTypeBoolean:
				return &schema.BoolType{T: "boolean"}
			case model.ColumnTypeDatetime:
				return &schema.TimeType{T: "timestamp"}
			case model.ColumnTypeDate:
				return &schema.TimeType{T: "date"}
			case model.ColumnTypeTime:
				return &schema.TimeType{T: "time"}
			case model.ColumnTypeObject:
				return &schema.JSONType{T: "jsonb"}
			default:
				return &schema.StringType{T: "text"}
			}
		},
	}
}

func newMySQLDialect() *atlasDialect {
	return &atlasDialect{
		name:  "mysql",
		quote: "`",
		plan:  mysql.DefaultPlan,
		columnType: func(ct model.ColumnType, primary bool) schema.Type {
			switch ct {
			case model.ColumnTypeInteger:
				return &schema.IntegerType{T: "bigint"}
			case model.ColumnTypeReal:
				return &schema.FloatType{T: "double"}
			case model.ColumnTypeBoolean:
				return &schema.BoolType{T: "bool"}
			case model.ColumnTypeDatetime:
				return &schema.TimeType{T: "datetime"}
			case model.ColumnTypeDate:
				return &schema.TimeType{T: "date"}
			case model.ColumnTypeTime:
				return &schema.TimeType{T: "time"}
			case model.ColumnTypeObject:
				return &schema.JSONType{T: "json"}
			default:
				// MySQL cannot index a TEXT column without a prefix length.
				if primary {
					return &schema.StringType{T: "varchar", Size: 255}
				}
				return &schema.StringType{T: "text"}
			}
		},
	}
}

// Name implements Dialect.
func (d *atlasDialect) Name() string {
	return d.name
}

// QuoteIdent implements Dialect.
func (d *atlasDialect) QuoteIdent(name string) string {
	return quoteWith(name, d.quote)
}

// CreateTable implements Dialect.
func (d *atlasDialect) CreateTable(ctx context.Context, t *Table) ([]string, error) {
	return d.planChanges(ctx, "create_"+t.Name, &schema.AddTable{T: d.schemaTable(t)})
}

// DropTable implements Dialect.
func (d *atlasDialect) DropTable(ctx context.Context, t *Table) ([]string, error) {
	return d.planChanges(ctx, "drop_"+t.Name, &schema.DropTable{
		T:     d.schemaTable(t),
		Extra: []schema.Clause{&schema.IfExists{}},
	})
}

func (d *atlasDialect) planChanges(ctx context.Context, name string, change schema.Change) ([]string, error) {
	plan, err := d.plan.PlanChanges(ctx, name, []schema.Change{change})
	if err != nil {
		return nil, fmt.Errorf("ddl: %s plan: %w", d.name, err)
	}
	statements := make([]string, 0, len(plan.Changes))
	for _, c := range plan.Changes {
		statements = append(statements, c.Cmd)
	}
	return statements, nil
}

// schemaTable converts t into an atlas table. The table is left without a
// schema so the planners emit unqualified names.
func (d *atlasDialect) schemaTable(t *Table) *schema.Table {
	table := schema.NewTable(t.Name)
	for _, c := range t.Columns {
		primary := t.IsPrimaryKey(c.Name)
		table.AddColumns(
			schema.NewColumn(c.Name).
				SetType(d.columnType(c.Type, primary)).
				SetNull(c.Nullable),
		)
	}
	if len(t.PrimaryKey) > 0 {
		parts := make([]*schema.Column, 0, len(t.PrimaryKey))
		for _, name := range t.PrimaryKey {
			if c, ok := table.Column(name); ok {
				parts = append(parts, c)
			}
		}
		table.SetPrimaryKey(schema.NewPrimaryKey(parts...))
	}
	return table
}
