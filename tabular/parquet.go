package tabular

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"

	"github.com/nao1215/ddlinfer/domain/model"
)

// parseParquet reads a Parquet file. Column types come from the Arrow schema.
func parseParquet(ctx context.Context, src Source, reader io.Reader) (*Dataset, error) {
	// Read all data into memory (Parquet requires random access)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create parquet reader: %w", ErrInvalidData, err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	names := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		names[i] = field.Name
	}
	header, err := normalizeHeader(names)
	if err != nil {
		return nil, err
	}

	// Read data by converting table to record batches
	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	records := make([]model.Record, 0, table.NumRows())
	for tableReader.Next() {
		batch := tableReader.Record()
		for i := range int(batch.NumRows()) {
			row := make(model.Record, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = arrowValue(col, i)
			}
			records = append(records, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}

	ds := NewDataset(model.NewTable(src.TableName, header, records))
	for i, field := range schema.Fields() {
		ds.declare(i, arrowColumnType(field.Type))
	}
	return ds, nil
}

// arrowValue renders one cell; nulls become empty strings.
func arrowValue(col arrow.Array, i int) string {
	if col.IsNull(i) {
		return ""
	}
	return col.ValueStr(i)
}

// arrowColumnType maps an Arrow data type to a logical column type.
func arrowColumnType(dt arrow.DataType) model.ColumnType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return model.ColumnTypeInteger
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64, arrow.DECIMAL128, arrow.DECIMAL256:
		return model.ColumnTypeReal
	case arrow.BOOL:
		return model.ColumnTypeBoolean
	case arrow.DATE32, arrow.DATE64:
		return model.ColumnTypeDate
	case arrow.TIME32, arrow.TIME64:
		return model.ColumnTypeTime
	case arrow.TIMESTAMP:
		return model.ColumnTypeDatetime
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST, arrow.STRUCT, arrow.MAP:
		return model.ColumnTypeObject
	case arrow.DICTIONARY:
		if dict, ok := dt.(*arrow.DictionaryType); ok {
			return arrowColumnType(dict.ValueType)
		}
		return model.ColumnTypeText
	default:
		return model.ColumnTypeText
	}
}
