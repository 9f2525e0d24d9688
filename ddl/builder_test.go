package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/ddlinfer/domain/model"
)

func TestCrateCreateTable(t *testing.T) {
	t.Parallel()

	table, err := NewTable("basic", basicSchema())
	require.NoError(t, err)

	got, err := newCrateDialect().CreateTable(t.Context(), table)
	require.NoError(t, err)

	want := "CREATE TABLE \"basic\" (\n" +
		"\t\"id\" BIGINT NOT NULL,\n" +
		"\t\"name\" TEXT,\n" +
		"\tPRIMARY KEY (\"id\")\n" +
		")"
	assert.Equal(t, []string{want}, got)
}

func TestBuilderColumnTypes(t *testing.T) {
	t.Parallel()

	crate := newCrateDialect()
	ansi := newANSIDialect()

	tests := []struct {
		ct        model.ColumnType
		wantCrate string
		wantANSI  string
	}{
		{ct: model.ColumnTypeText, wantCrate: "TEXT", wantANSI: "VARCHAR"},
		{ct: model.ColumnTypeInteger, wantCrate: "BIGINT", wantANSI: "BIGINT"},
		{ct: model.ColumnTypeReal, wantCrate: "DOUBLE PRECISION", wantANSI: "DOUBLE PRECISION"},
		{ct: model.ColumnTypeBoolean, wantCrate: "BOOLEAN", wantANSI: "BOOLEAN"},
		{ct: model.ColumnTypeDatetime, wantCrate: "TIMESTAMP WITH TIME ZONE", wantANSI: "TIMESTAMP"},
		{ct: model.ColumnTypeDate, wantCrate: "TIMESTAMP WITHOUT TIME ZONE", wantANSI: "DATE"},
		{ct: model.ColumnTypeTime, wantCrate: "TEXT", wantANSI: "TIME"},
		{ct: model.ColumnTypeObject, wantCrate: "OBJECT(DYNAMIC)", wantANSI: "VARCHAR"},
	}

	for _, tt := range tests {
		t.Run(tt.ct.String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantCrate, crate.columnType(tt.ct))
			assert.Equal(t, tt.wantANSI, ansi.columnType(tt.ct))
		})
	}
}

func TestBuilderWithoutPrimaryKey(t *testing.T) {
	t.Parallel()

	table, err := NewTable("events", &model.Schema{Fields: []model.Field{
		{Name: "at", Type: model.ColumnTypeDatetime, Required: true},
		{Name: "say \"hi\"", Type: model.ColumnTypeText},
	}})
	require.NoError(t, err)

	got, err := newANSIDialect().CreateTable(t.Context(), table)
	require.NoError(t, err)

	want := "CREATE TABLE \"events\" (\n" +
		"\t\"at\" TIMESTAMP NOT NULL,\n" +
		"\t\"say \"\"hi\"\"\" VARCHAR\n" +
		")"
	assert.Equal(t, []string{want}, got)
}

func TestBuilderDropTable(t *testing.T) {
	t.Parallel()

	table := &Table{Name: "basic"}

	got, err := newCrateDialect().DropTable(t.Context(), table)
	require.NoError(t, err)
	assert.Equal(t, []string{`DROP TABLE IF EXISTS "basic"`}, got)

	got, err = newANSIDialect().DropTable(t.Context(), table)
	require.NoError(t, err)
	assert.Equal(t, []string{`DROP TABLE "basic"`}, got)
}
