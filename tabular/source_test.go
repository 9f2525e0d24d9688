package tabular

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/ddlinfer/domain/model"
	"github.com/nao1215/ddlinfer/internal/fixture"
)

func TestLoad_Delimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		src        Source
		wantHeader []string
		wantRows   int
	}{
		{
			name: "csv",
			src: Source{
				Data: strings.NewReader("id,name\n1,foo\n2,bar\n"),
				Type: model.ContentTypeCSV,
			},
			wantHeader: []string{"id", "name"},
			wantRows:   2,
		},
		{
			name: "tsv with blank lines and ragged rows",
			src: Source{
				Data: strings.NewReader("\nid\tname\n1\tfoo\textra\n\n2\n"),
				Type: model.ContentTypeTSV,
			},
			wantHeader: []string{"id", "name"},
			wantRows:   2,
		},
		{
			name: "csv with BOM and blank header cell",
			src: Source{
				Data: strings.NewReader("\ufeffid,,name\n1,x,foo\n"),
				Type: model.ContentTypeCSV,
			},
			wantHeader: []string{"id", "field2", "name"},
			wantRows:   1,
		},
		{
			name: "gzip sniffed from magic bytes",
			src: Source{
				Data: bytes.NewReader(fixture.Gzip(t, []byte("a,b\n1,2\n"))),
				Type: model.ContentTypeCSV,
			},
			wantHeader: []string{"a", "b"},
			wantRows:   1,
		},
		{
			name: "zstd with declared compression",
			src: Source{
				Data:        bytes.NewReader(fixture.Zstd(t, []byte("a,b\n1,2\n3,4\n"))),
				Type:        model.ContentTypeCSV,
				Compression: model.CompressionZSTD,
			},
			wantHeader: []string{"a", "b"},
			wantRows:   2,
		},
		{
			name: "latin1 encoding",
			src: Source{
				Data:     bytes.NewReader([]byte("caf\xe9,n\n1,2\n")),
				Type:     model.ContentTypeCSV,
				Encoding: "latin1",
			},
			wantHeader: []string{"café", "n"},
			wantRows:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds, err := Load(context.Background(), tt.src)
			require.NoError(t, err)
			assert.Equal(t, model.NewHeader(tt.wantHeader), ds.Table.Header())
			assert.Equal(t, tt.wantRows, ds.Table.Len())
		})
	}
}

func TestLoad_FromPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := fixture.WriteFile(t, dir, "users.csv.gz", fixture.Gzip(t, []byte("id,name\n1,foo\n")))

	ds, err := Load(context.Background(), Source{Path: path, Type: model.ContentTypeCSV, TableName: "users"})
	require.NoError(t, err)
	assert.Equal(t, "users", ds.Table.Name())
	assert.Equal(t, []model.Record{{"1", "foo"}}, ds.Table.Records())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     Source
		wantErr error
	}{
		{name: "no source", src: Source{Type: model.ContentTypeCSV}, wantErr: ErrNoSource},
		{name: "empty csv", src: Source{Data: strings.NewReader("\n\n"), Type: model.ContentTypeCSV}, wantErr: ErrEmptyData},
		{name: "duplicate header", src: Source{Data: strings.NewReader("a,a\n1,2\n"), Type: model.ContentTypeCSV}, wantErr: ErrInvalidData},
		{name: "unknown type", src: Source{Data: strings.NewReader("x"), Type: model.ContentTypeUnknown}, wantErr: ErrUnsupportedFormat},
		{name: "unknown encoding", src: Source{Data: strings.NewReader("a\n"), Type: model.ContentTypeCSV, Encoding: "klingon"}, wantErr: ErrUnsupportedFormat},
		{name: "header with NUL", src: Source{Data: strings.NewReader("\x00\x01\n2\n"), Type: model.ContentTypeCSV}, wantErr: ErrInvalidData},
		{name: "header not utf-8", src: Source{Data: bytes.NewReader([]byte{'a', 0x9c, ',', 'b', '\n', '1', ',', '2', '\n'}), Type: model.ContentTypeCSV}, wantErr: ErrInvalidData},
		{name: "ltsv without label", src: Source{Data: strings.NewReader("a:1\tbroken\n"), Type: model.ContentTypeLTSV}, wantErr: ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(context.Background(), tt.src)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), Source{Path: "/nonexistent/file.csv", Type: model.ContentTypeCSV})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestLoad_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, Source{Data: strings.NewReader("a\n1\n"), Type: model.ContentTypeCSV})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLTSV_ColumnOrder(t *testing.T) {
	t.Parallel()

	data := "host:127.0.0.1\tstatus:200\n" +
		"host:10.0.0.1\tsize:512\tstatus:404\n"
	ds, err := Load(context.Background(), Source{Data: strings.NewReader(data), Type: model.ContentTypeLTSV})
	require.NoError(t, err)

	assert.Equal(t, model.NewHeader([]string{"host", "status", "size"}), ds.Table.Header())
	assert.Equal(t, []model.Record{
		{"127.0.0.1", "200", ""},
		{"10.0.0.1", "404", "512"},
	}, ds.Table.Records())
}

func TestPeek(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("id,name\n")
	for i := range 100 {
		fmt.Fprintf(&sb, "%d,name-%d\n", i, i)
	}
	payload := sb.String()

	t.Run("row limit", func(t *testing.T) {
		t.Parallel()

		ds, err := Peek(context.Background(), Source{Data: strings.NewReader(payload), Type: model.ContentTypeCSV}, Limits{Rows: 10})
		require.NoError(t, err)
		assert.Equal(t, 10, ds.Table.Len())
	})

	t.Run("byte limit drops the partial line", func(t *testing.T) {
		t.Parallel()

		// header (8 bytes) + "0,name-0\n" (9 bytes) + a partial second record
		ds, err := Peek(context.Background(), Source{Data: strings.NewReader(payload), Type: model.ContentTypeCSV}, Limits{Bytes: 20})
		require.NoError(t, err)
		require.Equal(t, 1, ds.Table.Len())
		assert.Equal(t, model.Record{"0", "name-0"}, ds.Table.Records()[0])
	})

	t.Run("defaults read everything small", func(t *testing.T) {
		t.Parallel()

		ds, err := Peek(context.Background(), Source{Data: strings.NewReader(payload), Type: model.ContentTypeCSV}, Limits{})
		require.NoError(t, err)
		assert.Equal(t, 100, ds.Table.Len())
	})

	t.Run("spreadsheets cannot be peeked", func(t *testing.T) {
		t.Parallel()

		_, err := Peek(context.Background(), Source{Data: strings.NewReader(""), Type: model.ContentTypeODS}, Limits{})
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestReadPrefix(t *testing.T) {
	t.Parallel()

	got, err := readPrefix(strings.NewReader("ab\ncd\nef"), 100)
	require.NoError(t, err)
	assert.Equal(t, "ab\ncd\nef", string(got))

	got, err = readPrefix(strings.NewReader("ab\ncd\nef"), 7)
	require.NoError(t, err)
	assert.Equal(t, "ab\ncd\n", string(got))

	got, err = readPrefix(strings.NewReader("abcdefgh"), 4)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(got))
}

func TestValidEncoding(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidEncoding(""))
	assert.True(t, ValidEncoding("utf-8"))
	assert.True(t, ValidEncoding("shift_jis"))
	assert.False(t, ValidEncoding("klingon"))
}
