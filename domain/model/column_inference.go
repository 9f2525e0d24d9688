package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datetimePattern represents a cached datetime pattern with compiled regex
type datetimePattern struct {
	pattern *regexp.Regexp
	formats []string // Multiple formats for the same pattern
	kind    ColumnType
}

// Cached datetime patterns for better performance
var cachedDatetimePatterns = []datetimePattern{
	// ISO8601 formats with timezone (most common first for early termination)
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
		ColumnTypeDatetime,
	},
	// ISO8601 formats without timezone
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
		ColumnTypeDatetime,
	},
	// ISO8601 date and time with space
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
		ColumnTypeDatetime,
	},
	// ISO8601 date only
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
		ColumnTypeDate,
	},
	// US formats
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}:\d{2}( (AM|PM))?$`),
		[]string{"1/2/2006 15:04:05", "1/2/2006 3:04:05 PM", "01/02/2006 15:04:05"},
		ColumnTypeDatetime,
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
		ColumnTypeDate,
	},
	// European formats
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4} \d{1,2}:\d{2}:\d{2}$`),
		[]string{"2.1.2006 15:04:05", "02.01.2006 15:04:05"},
		ColumnTypeDatetime,
	},
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`),
		[]string{"2.1.2006", "02.01.2006"},
		ColumnTypeDate,
	},
	// Time only
	{
		regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"15:04:05", "15:04:05.000", "3:04:05"},
		ColumnTypeTime,
	},
	{
		regexp.MustCompile(`^\d{1,2}:\d{2}$`),
		[]string{"15:04", "3:04"},
		ColumnTypeTime,
	},
}

// Type inference constants
const (
	// MaxSampleSize limits how many values to sample for type inference
	MaxSampleSize = 1000
	// EarlyTerminationThreshold is the percentage of text values that triggers early termination
	EarlyTerminationThreshold = 0.5
	// MinDatetimeLength is the minimum reasonable length for datetime values
	MinDatetimeLength = 4
	// MaxDatetimeLength is the maximum reasonable length for datetime values
	MaxDatetimeLength = 35
)

// temporalKind returns the temporal type of a value, or ColumnTypeText when it is not temporal
func temporalKind(value string) ColumnType {
	value = strings.TrimSpace(value)
	if value == "" {
		return ColumnTypeText
	}

	// Quick length-based filtering to avoid regex on obviously non-datetime values
	valueLen := len(value)
	if valueLen < MinDatetimeLength || valueLen > MaxDatetimeLength {
		return ColumnTypeText
	}

	hasDigit := false
	hasSeparator := false
	for _, r := range value {
		if r >= '0' && r <= '9' {
			hasDigit = true
		} else if r == '-' || r == '/' || r == '.' || r == ':' || r == 'T' || r == ' ' {
			hasSeparator = true
		}
		if hasDigit && hasSeparator {
			break
		}
	}
	if !hasDigit || !hasSeparator {
		return ColumnTypeText
	}

	for _, dp := range cachedDatetimePatterns {
		if dp.pattern.MatchString(value) {
			for _, format := range dp.formats {
				if _, err := time.Parse(format, value); err == nil {
					return dp.kind
				}
			}
		}
	}
	return ColumnTypeText
}

// isInteger checks if a value is an integer
func isInteger(value string) bool {
	if len(value) == 0 {
		return false
	}
	first := value[0]
	if first != '+' && first != '-' && (first < '0' || first > '9') {
		return false
	}

	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

// isFloat checks if a value is a float
func isFloat(value string) bool {
	hasDigit := false
	for _, r := range value {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return false
	}

	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// isBoolean checks if a value is a boolean literal
func isBoolean(value string) bool {
	switch strings.ToLower(value) {
	case "true", "false":
		return true
	default:
		return false
	}
}

// classifyValue determines the type of a single value.
// Temporal values collapse into ColumnTypeDatetime unless detailed is set.
func classifyValue(value string, detailed bool) ColumnType {
	if kind := temporalKind(value); kind != ColumnTypeText {
		if detailed {
			return kind
		}
		return ColumnTypeDatetime
	}
	if isInteger(value) {
		return ColumnTypeInteger
	}
	if isFloat(value) {
		return ColumnTypeReal
	}
	if detailed && isBoolean(value) {
		return ColumnTypeBoolean
	}
	return ColumnTypeText
}

// InferColumnType infers the column type from a slice of string values.
// Only TEXT, INTEGER, REAL and DATETIME are produced.
func InferColumnType(values []string) ColumnType {
	return inferType(values, false)
}

// DescribeColumnType infers the column type from a slice of string values,
// distinguishing dates, times and booleans.
func DescribeColumnType(values []string) ColumnType {
	return inferType(values, true)
}

func inferType(values []string, detailed bool) ColumnType {
	if len(values) == 0 {
		return ColumnTypeText
	}
	if len(values) > MaxSampleSize {
		values = values[:MaxSampleSize]
	}

	typeCounts := make(map[ColumnType]int)
	nonEmptyCount := 0

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		nonEmptyCount++

		valueType := classifyValue(value, detailed)
		typeCounts[valueType]++

		// Early termination: if too many text values, it's definitely text
		if typeCounts[ColumnTypeText] > 0 && float64(typeCounts[ColumnTypeText])/float64(nonEmptyCount) > EarlyTerminationThreshold {
			return ColumnTypeText
		}
	}

	if nonEmptyCount == 0 {
		return ColumnTypeText
	}
	return selectColumnType(typeCounts, nonEmptyCount)
}

// selectColumnType selects the best column type from the per-kind counts
func selectColumnType(typeCounts map[ColumnType]int, totalCount int) ColumnType {
	if typeCounts[ColumnTypeText] > 0 {
		return ColumnTypeText
	}

	// A single-kind temporal or boolean column must be homogeneous
	for _, ct := range []ColumnType{ColumnTypeDatetime, ColumnTypeDate, ColumnTypeTime, ColumnTypeBoolean} {
		if typeCounts[ct] == totalCount {
			return ct
		}
	}
	// Mixed dates and datetimes widen to datetime
	if typeCounts[ColumnTypeDate]+typeCounts[ColumnTypeDatetime] == totalCount {
		return ColumnTypeDatetime
	}

	realCount := typeCounts[ColumnTypeReal]
	if realCount+typeCounts[ColumnTypeInteger] != totalCount {
		// numbers mixed with other non-text kinds
		return ColumnTypeText
	}
	// Any real value widens an integer column
	if realCount > 0 {
		return ColumnTypeReal
	}
	return ColumnTypeInteger
}

// columnValues collects the values of column i across records
func columnValues(records []Record, i int) []string {
	values := make([]string, 0, len(records))
	for _, record := range records {
		values = append(values, record.Value(i))
	}
	return values
}

// hasEmpty reports whether any value is blank
func hasEmpty(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// InferColumnsInfo infers column information from header and data records
func InferColumnsInfo(header Header, records []Record) []ColumnInfo {
	return columnsInfo(header, records, InferColumnType)
}

// DescribeColumnsInfo infers detailed column information from header and data records
func DescribeColumnsInfo(header Header, records []Record) []ColumnInfo {
	return columnsInfo(header, records, DescribeColumnType)
}

func columnsInfo(header Header, records []Record, infer func([]string) ColumnType) []ColumnInfo {
	columnCount := len(header)
	if columnCount == 0 {
		return nil
	}

	columns := make([]ColumnInfo, columnCount)
	for i, name := range header {
		columns[i] = ColumnInfo{
			Name:     name,
			Type:     ColumnTypeText,
			Nullable: true,
		}
	}

	// If no records, return with TEXT types
	if len(records) == 0 {
		return columns
	}

	for i := range columnCount {
		values := columnValues(records, i)
		columns[i].Type = infer(values)
		columns[i].Nullable = hasEmpty(values)
	}
	return columns
}
