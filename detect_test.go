package ddlinfer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/ddlinfer/domain/model"
	"github.com/nao1215/ddlinfer/internal/fixture"
)

func TestDetectContentType(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	odsBytes := fixture.ODS(t, fixture.BasicSheets())
	xlsxBytes := fixture.XLSX(t, fixture.BasicSheets())
	csvBytes := []byte("id,name\n1,foo\n2,bar\n")

	tests := []struct {
		name            string
		resource        *Resource
		want            model.ContentType
		wantCompression model.CompressionType
	}{
		{
			name:     "explicit short name",
			resource: &Resource{Path: "data.bin", ContentType: "ods"},
			want:     model.ContentTypeODS,
		},
		{
			name:     "explicit mime beats extension",
			resource: &Resource{Path: "data.csv", ContentType: "text/tab-separated-values"},
			want:     model.ContentTypeTSV,
		},
		{
			name:     "unknown explicit falls through to extension",
			resource: &Resource{Path: "data.xlsx", ContentType: "application/x-unknown"},
			want:     model.ContentTypeXLSX,
		},
		{
			name:     "extension",
			resource: NewFileResource("basic.ods"),
			want:     model.ContentTypeODS,
		},
		{
			name:            "compressed extension",
			resource:        NewFileResource("basic.csv.gz"),
			want:            model.ContentTypeCSV,
			wantCompression: model.CompressionGZ,
		},
		{
			name:     "ods content without extension",
			resource: NewFileResource(fixture.WriteFile(t, dir, "workbook", odsBytes)),
			want:     model.ContentTypeODS,
		},
		{
			name:     "xlsx content without extension",
			resource: NewDataResource(bytes.NewReader(xlsxBytes), ""),
			want:     model.ContentTypeXLSX,
		},
		{
			name:     "parquet magic",
			resource: NewDataResource(bytes.NewReader(fixture.Parquet(t)), ""),
			want:     model.ContentTypeParquet,
		},
		{
			name:     "csv content",
			resource: NewDataResource(bytes.NewReader(csvBytes), ""),
			want:     model.ContentTypeCSV,
		},
		{
			name:            "gzip csv content",
			resource:        NewDataResource(bytes.NewReader(fixture.Gzip(t, csvBytes)), ""),
			want:            model.ContentTypeCSV,
			wantCompression: model.CompressionGZ,
		},
		{
			name:            "zstd csv content",
			resource:        NewDataResource(bytes.NewReader(fixture.Zstd(t, csvBytes)), ""),
			want:            model.ContentTypeCSV,
			wantCompression: model.CompressionZSTD,
		},
		{
			name:     "ltsv content",
			resource: NewDataResource(strings.NewReader("id:1\tname:foo\nid:2\tname:bar\n"), ""),
			want:     model.ContentTypeLTSV,
		},
		{
			name:     "json array content",
			resource: NewDataResource(strings.NewReader(`[{"id": 1, "name": "foo"}]`), ""),
			want:     model.ContentTypeJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DetectContentType(tt.resource)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, tt.resource.Type)
			assert.Equal(t, tt.wantCompression, tt.resource.Compression)
		})
	}
}

func TestDetectContentType_Unknown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resource *Resource
	}{
		{name: "semicolon separated", resource: NewDataResource(strings.NewReader("id;name\n1;foo\n2;bar\n"), "")},
		{name: "empty payload", resource: NewDataResource(strings.NewReader(""), "")},
		{name: "binary payload", resource: NewDataResource(bytes.NewReader([]byte{0x01, 0x00, 0x02, 0x00}), "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DetectContentType(tt.resource)
			require.ErrorIs(t, err, ErrUnknownContentType)
			assert.Equal(t, model.ContentTypeUnknown, got)
			assert.Equal(t, model.ContentTypeUnknown, tt.resource.Type)
		})
	}
}

func TestDetectContentType_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := DetectContentType(NewFileResource(t.TempDir() + "/missing"))
	require.ErrorIs(t, err, ErrUnresolvableResource)
}

func TestDetectContentType_DataNotConsumed(t *testing.T) {
	t.Parallel()

	payload := strings.Repeat("id,name\n1,foo\n", 1000)
	r := NewDataResource(strings.NewReader(payload), "")

	_, err := DetectContentType(r)
	require.NoError(t, err)

	got, err := io.ReadAll(r.Data)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
}

func TestSniffText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  model.ContentType
	}{
		{name: "json array", input: "[\n  {\"a\": 1}\n]", want: model.ContentTypeJSON},
		{name: "ndjson", input: "{\"a\": 1}\n{\"a\": 2}\n", want: model.ContentTypeNDJSON},
		{name: "pretty json object", input: "{\n  \"a\": 1\n}", want: model.ContentTypeJSON},
		{name: "yaml document", input: "---\n- id: 1\n", want: model.ContentTypeYAML},
		{name: "yaml sequence", input: "- id: 1\n  name: foo\n", want: model.ContentTypeYAML},
		{name: "tsv", input: "id\tname\n1\tfoo\n", want: model.ContentTypeTSV},
		{name: "csv with bom", input: "\ufeffid,name\r\n1,foo\r\n", want: model.ContentTypeCSV},
		{name: "inconsistent commas", input: "a,b\nc\n", want: model.ContentTypeUnknown},
		{name: "plain words", input: "hello world\n", want: model.ContentTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sniffText(headLines([]byte(tt.input))))
		})
	}
}

func TestLooksLikeLTSV(t *testing.T) {
	t.Parallel()

	assert.True(t, looksLikeLTSV([]string{"host:127.0.0.1\tstatus:200"}))
	assert.False(t, looksLikeLTSV([]string{"id\tname", "1\tfoo"}))
	assert.False(t, looksLikeLTSV([]string{"time:12:00"}))
	assert.False(t, looksLikeLTSV(nil))
}
