package ddlinfer

import (
	"io"
	"strings"

	"github.com/nao1215/ddlinfer/domain/model"
	"github.com/nao1215/ddlinfer/tabular"
)

// StdinPath is the path that names standard input on the command line.
const StdinPath = "-"

// Resource describes a tabular input: a file path or a data payload, plus the
// format and sheet selection needed to read it.
type Resource struct {
	// Path is the location of the input file.
	Path string
	// Data is an in-memory payload or stream. It takes precedence over Path.
	Data io.Reader
	// Address selects a sheet or table by name or 1-based index. Empty means the first one.
	Address string
	// ContentType is an explicit content type: short name ("ods"), suffix (".ods") or MIME value.
	ContentType string
	// Encoding is the text encoding label of delimited inputs (UTF-8 when empty).
	Encoding string

	// Type is the resolved content type, written once by detection.
	Type model.ContentType
	// Compression is the detected compression of the payload.
	Compression model.CompressionType
}

// NewFileResource creates a resource reading the file at path.
func NewFileResource(path string) *Resource {
	return &Resource{Path: path}
}

// NewDataResource creates a resource reading data with an optional explicit content type.
func NewDataResource(data io.Reader, contentType string) *Resource {
	return &Resource{Data: data, ContentType: contentType}
}

// hasPath reports whether the resource names a file.
func (r *Resource) hasPath() bool {
	return strings.TrimSpace(r.Path) != ""
}

// resolvable reports whether the resource has a path or a payload to read.
func (r *Resource) resolvable() bool {
	return r.Data != nil || r.hasPath()
}

// source converts the resource into a tabular source for tableName.
func (r *Resource) source(tableName string) tabular.Source {
	return tabular.Source{
		Path:        r.Path,
		Data:        r.Data,
		Type:        r.Type,
		Compression: r.Compression,
		Address:     r.Address,
		TableName:   tableName,
		Encoding:    r.Encoding,
	}
}
