package tabular

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/nao1215/ddlinfer/domain/model"
)

// documentBuilder collects keyed rows in first-seen column order and tracks
// the JSON kinds seen per column.
type documentBuilder struct {
	labels []string
	index  map[string]int
	rows   [][]any
	kinds  []kindSet
}

type kindSet struct {
	boolean bool
	nested  bool
	other   bool
}

func newDocumentBuilder() *documentBuilder {
	return &documentBuilder{index: make(map[string]int)}
}

func (b *documentBuilder) column(name string) int {
	if i, ok := b.index[name]; ok {
		return i
	}
	i := len(b.labels)
	b.index[name] = i
	b.labels = append(b.labels, name)
	b.kinds = append(b.kinds, kindSet{})
	return i
}

// addRow appends a row given as ordered key/value pairs.
func (b *documentBuilder) addRow(keys []string, values []any) {
	row := make([]any, len(b.labels), len(b.labels)+len(keys))
	for n, key := range keys {
		i := b.column(key)
		for len(row) <= i {
			row = append(row, nil)
		}
		row[i] = values[n]
	}
	b.rows = append(b.rows, row)
}

func (b *documentBuilder) dataset(tableName string) (*Dataset, error) {
	if len(b.labels) == 0 {
		return nil, ErrEmptyData
	}
	header, err := normalizeHeader(b.labels)
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(b.rows))
	for _, row := range b.rows {
		record := make(model.Record, len(b.labels))
		for i := range b.labels {
			if i >= len(row) || row[i] == nil {
				continue
			}
			s, kind := stringifyValue(row[i])
			record[i] = s
			switch kind {
			case model.ColumnTypeBoolean:
				b.kinds[i].boolean = true
			case model.ColumnTypeObject:
				b.kinds[i].nested = true
			default:
				b.kinds[i].other = true
			}
		}
		records = append(records, record)
	}

	ds := NewDataset(model.NewTable(tableName, header, records))
	for i, k := range b.kinds {
		switch {
		case k.nested:
			ds.declare(i, model.ColumnTypeObject)
		case k.boolean && !k.other:
			ds.declare(i, model.ColumnTypeBoolean)
		}
	}
	return ds, nil
}

// stringifyValue renders a decoded document value as a cell string and reports
// its kind: boolean, object (nested value) or text for everything else.
func stringifyValue(v any) (string, model.ColumnType) {
	switch val := v.(type) {
	case nil:
		return "", model.ColumnTypeText
	case string:
		return val, model.ColumnTypeText
	case bool:
		return strconv.FormatBool(val), model.ColumnTypeBoolean
	case json.Number:
		return val.String(), model.ColumnTypeText
	case int:
		return strconv.Itoa(val), model.ColumnTypeText
	case int64:
		return strconv.FormatInt(val, 10), model.ColumnTypeText
	case uint64:
		return strconv.FormatUint(val, 10), model.ColumnTypeText
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), model.ColumnTypeText
	case yaml.MapSlice:
		return marshalNested(val.ToMap()), model.ColumnTypeObject
	case map[string]any, map[any]any, []any:
		return marshalNested(val), model.ColumnTypeObject
	default:
		return fmt.Sprint(val), model.ColumnTypeText
	}
}

func marshalNested(v any) string {
	b, err := json.Marshal(normalizeNested(v))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// normalizeNested converts YAML ordered maps into JSON-encodable values.
func normalizeNested(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		return normalizeNested(val.ToMap())
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeNested(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeNested(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeNested(item)
		}
		return out
	default:
		return val
	}
}

// parseDocument parses a JSON or YAML document. The document is either a
// sequence of mappings or a sequence of sequences whose first item is the header.
// JSON documents are decoded with the YAML decoder, which accepts JSON and keeps key order.
func parseDocument(src Source, reader io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyData
	}

	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s document must be a sequence of rows", ErrInvalidData, src.Type)
	}
	if len(items) == 0 {
		return nil, ErrEmptyData
	}

	b := newDocumentBuilder()
	if first, ok := items[0].([]any); ok {
		for _, cell := range first {
			s, _ := stringifyValue(cell)
			b.column(s)
		}
		for n, item := range items[1:] {
			row, ok := item.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: row %d is not a sequence", ErrInvalidData, n+2)
			}
			values := row
			if len(values) > len(b.labels) {
				values = values[:len(b.labels)]
			}
			b.addRow(b.labels[:len(values)], values)
		}
		return b.dataset(src.TableName)
	}

	for n, item := range items {
		row, ok := item.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("%w: row %d is not a mapping", ErrInvalidData, n+1)
		}
		keys := make([]string, 0, len(row))
		values := make([]any, 0, len(row))
		for _, kv := range row {
			keys = append(keys, fmt.Sprint(kv.Key))
			values = append(values, kv.Value)
		}
		b.addRow(keys, values)
	}
	return b.dataset(src.TableName)
}

// parseNDJSON parses newline-delimited JSON objects.
func parseNDJSON(tableName string, reader io.Reader, maxRows int) (*Dataset, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	b := newDocumentBuilder()
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if maxRows >= 0 && len(b.rows) >= maxRows {
			break
		}
		keys, values, err := decodeObject(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidData, lineNum, err)
		}
		b.addRow(keys, values)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read NDJSON: %w", err)
	}
	return b.dataset(tableName)
}

// decodeObject decodes one JSON object keeping its key order.
func decodeObject(line []byte) ([]string, []any, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("expected a JSON object")
	}

	var (
		keys   []string
		values []any
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		keys = append(keys, strings.TrimSpace(key))
		values = append(values, value)
	}
	return keys, values, nil
}
