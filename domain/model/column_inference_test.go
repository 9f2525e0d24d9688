package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []string
		expected ColumnType
	}{
		{name: "all integers", values: []string{"123", "456", "789"}, expected: ColumnTypeInteger},
		{name: "mixed integers and floats", values: []string{"123", "45.6", "789"}, expected: ColumnTypeReal},
		{name: "all floats", values: []string{"12.3", "45.6", "78.9"}, expected: ColumnTypeReal},
		{name: "mixed numbers and text", values: []string{"123", "hello", "789"}, expected: ColumnTypeText},
		{name: "all text", values: []string{"hello", "world", "test"}, expected: ColumnTypeText},
		{name: "empty values", values: []string{"", "", ""}, expected: ColumnTypeText},
		{name: "no values", values: nil, expected: ColumnTypeText},
		{name: "integers with empty values", values: []string{"123", "", "789"}, expected: ColumnTypeInteger},
		{name: "negative integers", values: []string{"-123", "456", "-789"}, expected: ColumnTypeInteger},
		{name: "scientific notation", values: []string{"1e10", "2.5e-3", "3.14e2"}, expected: ColumnTypeReal},
		{name: "zero values", values: []string{"0", "0.0", "000"}, expected: ColumnTypeReal},
		{name: "ISO8601 dates", values: []string{"2023-01-15", "2023-02-20"}, expected: ColumnTypeDatetime},
		{name: "ISO8601 datetime", values: []string{"2023-01-15T10:30:00", "2023-02-20T14:45:30"}, expected: ColumnTypeDatetime},
		{name: "time only", values: []string{"10:30:00", "14:45:30"}, expected: ColumnTypeDatetime},
		{name: "booleans stay text", values: []string{"true", "false"}, expected: ColumnTypeText},
		{name: "mixed datetime and text", values: []string{"2023-01-15", "not a date", "2023-03-10"}, expected: ColumnTypeText},
		{name: "mixed integers and dates", values: []string{"1", "2023-01-15"}, expected: ColumnTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, InferColumnType(tt.values))
		})
	}
}

func TestDescribeColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []string
		expected ColumnType
	}{
		{name: "integers", values: []string{"1", "2"}, expected: ColumnTypeInteger},
		{name: "dates", values: []string{"2023-01-15", "1/15/2023"}, expected: ColumnTypeDate},
		{name: "times", values: []string{"10:30", "14:45:30"}, expected: ColumnTypeTime},
		{name: "datetimes", values: []string{"2023-01-15T10:30:00Z", "2023-01-15 10:30:00"}, expected: ColumnTypeDatetime},
		{name: "dates widen to datetime", values: []string{"2023-01-15", "2023-01-15T10:30:00"}, expected: ColumnTypeDatetime},
		{name: "booleans", values: []string{"true", "FALSE", "True"}, expected: ColumnTypeBoolean},
		{name: "booleans and integers", values: []string{"true", "1"}, expected: ColumnTypeText},
		{name: "times and dates", values: []string{"10:30", "2023-01-15"}, expected: ColumnTypeText},
		{name: "text", values: []string{"alpha", "beta"}, expected: ColumnTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DescribeColumnType(tt.values))
		})
	}
}

func TestInferColumnsInfo(t *testing.T) {
	t.Parallel()

	t.Run("mixed column types", func(t *testing.T) {
		t.Parallel()

		header := NewHeader([]string{"id", "name", "age", "salary", "hire_date"})
		records := []Record{
			NewRecord([]string{"1", "Alice", "30", "95000", "2023-01-15"}),
			NewRecord([]string{"2", "Bob", "", "78000.5", "2023-02-20"}),
			NewRecord([]string{"3", "Charlie", "35", "102000", "2023-03-10"}),
		}

		got := InferColumnsInfo(header, records)
		want := []ColumnInfo{
			{Name: "id", Type: ColumnTypeInteger},
			{Name: "name", Type: ColumnTypeText},
			{Name: "age", Type: ColumnTypeInteger, Nullable: true},
			{Name: "salary", Type: ColumnTypeReal},
			{Name: "hire_date", Type: ColumnTypeDatetime},
		}
		assert.Equal(t, want, got)
	})

	t.Run("short records count as empty", func(t *testing.T) {
		t.Parallel()

		header := NewHeader([]string{"a", "b"})
		records := []Record{NewRecord([]string{"1", "2"}), NewRecord([]string{"3"})}

		got := InferColumnsInfo(header, records)
		require.Len(t, got, 2)
		assert.False(t, got[0].Nullable)
		assert.True(t, got[1].Nullable)
	})

	t.Run("empty records", func(t *testing.T) {
		t.Parallel()

		got := InferColumnsInfo(NewHeader([]string{"col1", "col2"}), nil)
		require.Len(t, got, 2)
		for _, col := range got {
			assert.Equal(t, ColumnTypeText, col.Type)
			assert.True(t, col.Nullable)
		}
	})

	t.Run("empty header", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, InferColumnsInfo(nil, nil))
	})
}

func TestDescribeColumnsInfo(t *testing.T) {
	t.Parallel()

	header := NewHeader([]string{"event_date", "event_time", "flag"})
	records := []Record{
		NewRecord([]string{"2023-01-15", "10:30:00", "true"}),
		NewRecord([]string{"2023-02-20", "14:45:30", "false"}),
	}

	got := DescribeColumnsInfo(header, records)
	require.Len(t, got, 3)
	assert.Equal(t, ColumnTypeDate, got[0].Type)
	assert.Equal(t, ColumnTypeTime, got[1].Type)
	assert.Equal(t, ColumnTypeBoolean, got[2].Type)
}

func TestTemporalKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected ColumnType
	}{
		{"ISO date", "2023-01-15", ColumnTypeDate},
		{"ISO datetime", "2023-01-15T10:30:00", ColumnTypeDatetime},
		{"ISO datetime with timezone Z", "2023-01-15T10:30:00Z", ColumnTypeDatetime},
		{"ISO datetime with timezone offset", "2023-01-15T10:30:00+09:00", ColumnTypeDatetime},
		{"ISO datetime with milliseconds", "2023-01-15T10:30:00.123", ColumnTypeDatetime},
		{"US date", "1/15/2023", ColumnTypeDate},
		{"US datetime", "1/15/2023 10:30:00", ColumnTypeDatetime},
		{"European date", "15.1.2023", ColumnTypeDate},
		{"European datetime", "15.1.2023 10:30:00", ColumnTypeDatetime},
		{"Time HH:MM:SS", "10:30:00", ColumnTypeTime},
		{"Time HH:MM", "10:30", ColumnTypeTime},
		{"Plain text", "hello world", ColumnTypeText},
		{"Number", "123", ColumnTypeText},
		{"Invalid date", "2023-13-45", ColumnTypeText},
		{"Invalid time", "25:70:90", ColumnTypeText},
		{"Empty string", "", ColumnTypeText},
		{"Partial date", "2023-01", ColumnTypeText},
		{"Wrong format", "Jan 15, 2023", ColumnTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, temporalKind(tt.value))
		})
	}
}
