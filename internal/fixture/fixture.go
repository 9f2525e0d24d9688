// Package fixture builds spreadsheet and columnar test files on the fly.
package fixture

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ODSMimeType is the media type stored in the mimetype member of an ODS archive
const ODSMimeType = "application/vnd.oasis.opendocument.spreadsheet"

// Sheet is a named worksheet; the first row is the header.
type Sheet struct {
	Name string
	Rows [][]string
}

// BasicSheets returns the two-sheet workbook used across tests:
// Sheet1 has (id, name), Sheet2 has (sku, price, in_stock).
func BasicSheets() []Sheet {
	return []Sheet{
		{
			Name: "Sheet1",
			Rows: [][]string{
				{"id", "name"},
				{"1", "foo"},
				{"2", "bar"},
				{"3", "baz"},
			},
		},
		{
			Name: "Sheet2",
			Rows: [][]string{
				{"sku", "price", "in_stock"},
				{"A-1", "1.5", "true"},
				{"A-2", "2.25", "false"},
				{"A-3", "", "true"},
			},
		},
	}
}

// ODS encodes sheets as an OpenDocument spreadsheet.
// Numeric cells are written as typed float cells, everything else as strings.
func ODS(tb testing.TB, sheets []Sheet) []byte {
	tb.Helper()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString(`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" ` +
		`xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" ` +
		`xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" office:version="1.2">`)
	body.WriteString(`<office:body><office:spreadsheet>`)
	for _, sheet := range sheets {
		fmt.Fprintf(&body, `<table:table table:name="%s">`, escape(sheet.Name))
		for _, row := range sheet.Rows {
			body.WriteString(`<table:table-row>`)
			for _, cell := range row {
				switch {
				case cell == "":
					body.WriteString(`<table:table-cell/>`)
				case isNumber(cell):
					fmt.Fprintf(&body, `<table:table-cell office:value-type="float" office:value="%s"><text:p>%s</text:p></table:table-cell>`, cell, cell)
				default:
					fmt.Fprintf(&body, `<table:table-cell office:value-type="string"><text:p>%s</text:p></table:table-cell>`, escape(cell))
				}
			}
			// trailing padding as written by office suites
			body.WriteString(`<table:table-cell table:number-columns-repeated="1020"/>`)
			body.WriteString(`</table:table-row>`)
		}
		body.WriteString(`<table:table-row table:number-rows-repeated="1048570"><table:table-cell table:number-columns-repeated="1024"/></table:table-row>`)
		body.WriteString(`</table:table>`)
	}
	body.WriteString(`</office:spreadsheet></office:body></office:document-content>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	// the mimetype member must come first and be stored uncompressed
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(tb, err)
	_, err = w.Write([]byte(ODSMimeType))
	require.NoError(tb, err)

	manifest := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0">` +
		`<manifest:file-entry manifest:full-path="/" manifest:media-type="` + ODSMimeType + `"/>` +
		`<manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>` +
		`</manifest:manifest>`
	for name, content := range map[string]string{
		"META-INF/manifest.xml": manifest,
		"content.xml":           body.String(),
	} {
		w, err := zw.Create(name)
		require.NoError(tb, err)
		_, err = w.Write([]byte(content))
		require.NoError(tb, err)
	}
	require.NoError(tb, zw.Close())
	return buf.Bytes()
}

// XLSX encodes sheets as an Excel workbook.
func XLSX(tb testing.TB, sheets []Sheet) []byte {
	tb.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(tb, f.SetSheetName("Sheet1", sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(tb, err)
		}
		for r, row := range sheet.Rows {
			for c, value := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(tb, err)
				require.NoError(tb, f.SetCellStr(sheet.Name, cell, value))
			}
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(tb, err)
	return buf.Bytes()
}

// Parquet encodes a small typed table with columns
// id (int64), name (string), score (float64), active (bool).
func Parquet(tb testing.TB) []byte {
	tb.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64},
		{Name: "active", Type: arrow.FixedWidthTypes.Boolean},
	}, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"alice", "", "carol"}, []bool{true, false, true})
	b.Field(2).(*array.Float64Builder).AppendValues([]float64{1.5, 2, 3.25}, nil)
	b.Field(3).(*array.BooleanBuilder).AppendValues([]bool{true, false, true}, nil)

	rec := b.NewRecord()
	defer rec.Release()
	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(tb, pqarrow.WriteTable(tbl, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

// Gzip compresses data with gzip.
func Gzip(tb testing.TB, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(tb, err)
	require.NoError(tb, zw.Close())
	return buf.Bytes()
}

// Zstd compresses data with zstandard.
func Zstd(tb testing.TB, data []byte) []byte {
	tb.Helper()

	enc, err := zstd.NewWriter(nil)
	require.NoError(tb, err)
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(data, nil)
}

// WriteFile writes data under dir and returns the path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	require.NoError(tb, os.WriteFile(path, data, 0o600))
	return path
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
