package tabular

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/ddlinfer/domain/model"
)

// Default sampling limits
const (
	// DefaultPeekBytes is the default number of decompressed bytes read by Peek
	DefaultPeekBytes = 64 * 1024
	// DefaultSampleRows is the default number of data rows returned by Peek
	DefaultSampleRows = 1000
)

// Source describes where and how to read a tabular resource.
type Source struct {
	// Path is the file to read. Ignored when Data is set.
	Path string
	// Data is an in-memory payload or stream.
	Data io.Reader
	// Type is the resolved content type. Required.
	Type model.ContentType
	// Compression is the known compression. Magic bytes are sniffed when it is CompressionNone.
	Compression model.CompressionType
	// Address selects a sheet (XLSX, ODS) or table (HTML) by name or 1-based index.
	Address string
	// TableName is the name given to the produced table.
	TableName string
	// Encoding is the text encoding label of text formats (UTF-8 when empty).
	Encoding string
	// Delimiter overrides the CSV field separator. Zero means ','.
	Delimiter rune
	// SniffDelimiter makes Load pick the CSV separator from the leading lines
	// when Delimiter is zero. Peek always uses the configured separator.
	SniffDelimiter bool
}

// Limits bounds the sample read by Peek.
type Limits struct {
	// Bytes is the maximum number of decompressed bytes to read.
	Bytes int
	// Rows is the maximum number of data rows to keep.
	Rows int
}

func (l Limits) withDefaults() Limits {
	if l.Bytes <= 0 {
		l.Bytes = DefaultPeekBytes
	}
	if l.Rows <= 0 {
		l.Rows = DefaultSampleRows
	}
	return l
}

// Dataset is a loaded table plus the column types declared by the format itself.
type Dataset struct {
	// Table holds header and records as strings.
	Table *model.Table
	// declared maps column index to a type carried by the format.
	declared map[int]model.ColumnType
}

// NewDataset wraps a table without declared column types.
func NewDataset(table *model.Table) *Dataset {
	return &Dataset{Table: table}
}

// Declared returns the format-declared type of column i, if any.
func (d *Dataset) Declared(i int) (model.ColumnType, bool) {
	ct, ok := d.declared[i]
	return ct, ok
}

func (d *Dataset) declare(i int, ct model.ColumnType) {
	if d.declared == nil {
		d.declared = make(map[int]model.ColumnType)
	}
	d.declared[i] = ct
}

// open returns the decompressed payload of src.
func open(src Source) (io.Reader, func() error, error) {
	var (
		raw       io.Reader
		closeFile = func() error { return nil }
	)
	switch {
	case src.Data != nil:
		raw = src.Data
	case strings.TrimSpace(src.Path) != "":
		f, err := os.Open(src.Path) //nolint:gosec // User-provided path is necessary for file operations
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file: %w", err)
		}
		raw = f
		closeFile = f.Close
	default:
		return nil, nil, ErrNoSource
	}

	compression := src.Compression
	if compression == model.CompressionNone && src.Data == nil {
		compression = model.CompressionFromPath(src.Path)
	}
	reader, closeReader, err := autoDecompress(compression, raw)
	if err != nil {
		_ = closeFile()
		return nil, nil, err
	}

	// Create a composite cleanup function
	cleanup := func() error {
		cleanupErr := closeReader()
		if closeErr := closeFile(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}
	return reader, cleanup, nil
}

// Peek reads a bounded sample of a line-oriented resource.
// At most limits.Bytes decompressed bytes are read; a partial trailing line is dropped,
// and at most limits.Rows data rows are kept.
func Peek(ctx context.Context, src Source, limits Limits) (*Dataset, error) {
	if !src.Type.IsLineOriented() {
		return nil, fmt.Errorf("%w: %s cannot be sampled from a prefix", ErrUnsupportedFormat, src.Type)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limits = limits.withDefaults()

	reader, cleanup, err := open(src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cleanup() }()

	prefix, err := readPrefix(reader, limits.Bytes)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(bytes.NewReader(prefix), src.Encoding)
	if err != nil {
		return nil, err
	}
	return parseLineOriented(src, text, limits.Rows)
}

// readPrefix reads up to limit bytes. When the payload is longer, the prefix is
// cut back to the last complete line.
func readPrefix(reader io.Reader, limit int) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(reader, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read resource: %w", err)
	}
	if len(buf) <= limit {
		return buf, nil
	}
	buf = buf[:limit]
	if i := bytes.LastIndexByte(buf, '\n'); i >= 0 {
		return buf[:i+1], nil
	}
	return buf, nil
}

// Load materializes the whole addressed table of the resource.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, cleanup, err := open(src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cleanup() }()

	switch src.Type {
	case model.ContentTypeCSV, model.ContentTypeTSV, model.ContentTypeLTSV, model.ContentTypeNDJSON:
		text, err := decodeText(reader, src.Encoding)
		if err != nil {
			return nil, err
		}
		if src.Type == model.ContentTypeCSV && src.SniffDelimiter && src.Delimiter == 0 {
			if src.Delimiter, text, err = sniffReaderDelimiter(text); err != nil {
				return nil, err
			}
		}
		return parseLineOriented(src, text, -1)
	case model.ContentTypeJSON, model.ContentTypeYAML:
		text, err := decodeText(reader, src.Encoding)
		if err != nil {
			return nil, err
		}
		return parseDocument(src, text)
	case model.ContentTypeHTML:
		return parseHTML(src, reader)
	case model.ContentTypeXLSX:
		return parseXLSX(src, reader)
	case model.ContentTypeODS:
		return parseODS(src, reader)
	case model.ContentTypeParquet:
		return parseParquet(ctx, src, reader)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Type)
	}
}

// parseLineOriented dispatches text formats. maxRows < 0 means unlimited.
func parseLineOriented(src Source, reader io.Reader, maxRows int) (*Dataset, error) {
	switch src.Type {
	case model.ContentTypeCSV:
		delimiter := src.Delimiter
		if delimiter == 0 {
			delimiter = ','
		}
		return parseDelimited(src.TableName, reader, delimiter, maxRows)
	case model.ContentTypeTSV:
		return parseDelimited(src.TableName, reader, '\t', maxRows)
	case model.ContentTypeLTSV:
		return parseLTSV(src.TableName, reader, maxRows)
	case model.ContentTypeNDJSON:
		return parseNDJSON(src.TableName, reader, maxRows)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Type)
	}
}

// normalizeHeader trims header names and names blank columns field1, field2, ...
func normalizeHeader(row []string) (model.Header, error) {
	header := make([]string, len(row))
	for i, name := range row {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("field%d", i+1)
		}
		// decoding replaces invalid input with utf8.RuneError
		if strings.IndexByte(name, 0) >= 0 || strings.ContainsRune(name, utf8.RuneError) || !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: header of column %d is not text", ErrInvalidData, i+1)
		}
		header[i] = name
	}
	if err := model.ValidateColumnNames(header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return model.NewHeader(header), nil
}

// isBlankRow reports whether every field of row is empty.
func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// trimRow drops trailing empty cells beyond the header width.
func trimRow(row []string, width int) model.Record {
	if len(row) > width {
		row = row[:width]
	}
	return model.NewRecord(row)
}
