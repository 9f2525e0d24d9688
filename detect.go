package ddlinfer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/nao1215/ddlinfer/domain/model"
	"github.com/nao1215/ddlinfer/tabular"
)

// SniffBytes is the number of leading bytes inspected by content sniffing.
const SniffBytes = 3072

// sniffLines is the number of leading text lines checked by the line heuristics.
const sniffLines = 5

var (
	magicParquet = []byte("PAR1")
	magicZip     = []byte("PK\x03\x04")
	ltsvField    = regexp.MustCompile(`^[0-9A-Za-z_.\-]+:`)
)

// ContentTypeDetector resolves the format of a resource.
type ContentTypeDetector struct {
	logger *zap.Logger
}

// NewContentTypeDetector creates a detector. A nil logger disables logging.
func NewContentTypeDetector(logger *zap.Logger) *ContentTypeDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentTypeDetector{logger: logger}
}

// DetectContentType runs detection without logging.
func DetectContentType(r *Resource) (model.ContentType, error) {
	return NewContentTypeDetector(nil).Detect(r)
}

// Detect resolves the content type of r from, in order of precedence, the explicit
// ContentType string, the path extension and the leading bytes of the payload.
// On success the type is written to r.Type. ErrUnknownContentType is returned when
// nothing matched; ErrUnresolvableResource when the payload could not be read.
//
// Sniffing a Data stream does not consume it: r.Data is replaced by a buffered
// reader that still yields every byte.
func (d *ContentTypeDetector) Detect(r *Resource) (model.ContentType, error) {
	if r.hasPath() && r.Compression == model.CompressionNone {
		r.Compression = model.CompressionFromPath(r.Path)
	}

	if explicit := strings.TrimSpace(r.ContentType); explicit != "" {
		if ct, ok := model.ParseContentType(explicit); ok {
			return d.resolved(r, ct, "explicit")
		}
		d.logger.Info("ignoring unsupported explicit content type", zap.String("content_type", explicit))
	}

	if r.hasPath() {
		if ct := model.ContentTypeFromPath(r.Path); ct.IsKnown() {
			return d.resolved(r, ct, "extension")
		}
	}

	head, err := d.head(r)
	if err != nil {
		return model.ContentTypeUnknown, err
	}
	if compression := model.CompressionFromMagic(head); compression != model.CompressionNone {
		if r.Compression == model.CompressionNone {
			r.Compression = compression
		}
		head = decompressHead(compression, head)
	}
	if ct := sniffContentType(head); ct.IsKnown() {
		return d.resolved(r, ct, "content")
	}
	return model.ContentTypeUnknown, fmt.Errorf("%w: %s", ErrUnknownContentType, describeResource(r))
}

func (d *ContentTypeDetector) resolved(r *Resource, ct model.ContentType, by string) (model.ContentType, error) {
	r.Type = ct
	d.logger.Debug("content type detected",
		zap.Stringer("content_type", ct),
		zap.String("by", by),
		zap.Stringer("compression", r.Compression))
	return ct, nil
}

// head returns up to SniffBytes leading bytes of the resource payload.
func (d *ContentTypeDetector) head(r *Resource) ([]byte, error) {
	if r.Data != nil {
		br := bufio.NewReaderSize(r.Data, SniffBytes)
		r.Data = br
		peeked, err := br.Peek(SniffBytes)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("%w: %w", ErrUnresolvableResource, err)
		}
		return bytes.Clone(peeked), nil
	}

	f, err := os.Open(r.Path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvableResource, err)
	}
	defer f.Close()

	buf := make([]byte, SniffBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvableResource, err)
	}
	return buf[:n], nil
}

// decompressHead decompresses as much of a truncated compressed head as possible.
func decompressHead(compression model.CompressionType, head []byte) []byte {
	reader, cleanup, err := tabular.NewDecompressor(compression, bytes.NewReader(head))
	if err != nil {
		return nil
	}
	defer func() { _ = cleanup() }()

	buf := make([]byte, SniffBytes)
	n, _ := io.ReadFull(reader, buf) //nolint:errcheck // a truncated stream still yields a usable prefix
	return buf[:n]
}

// sniffContentType inspects leading bytes.
func sniffContentType(head []byte) model.ContentType {
	if len(bytes.TrimSpace(head)) == 0 {
		return model.ContentTypeUnknown
	}
	if bytes.HasPrefix(head, magicParquet) {
		return model.ContentTypeParquet
	}

	lines := headLines(head)
	// LTSV is valid TSV, so it has to be recognized before the generic sniffers.
	if looksLikeLTSV(lines) {
		return model.ContentTypeLTSV
	}

	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		if ct, ok := model.ParseContentType(m.String()); ok {
			return ct
		}
	}

	if bytes.HasPrefix(head, magicZip) {
		return sniffZip(head)
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return model.ContentTypeUnknown
	}
	return sniffText(lines)
}

// sniffZip recognizes workbook containers from the member names in their local headers.
func sniffZip(head []byte) model.ContentType {
	switch {
	case bytes.Contains(head, []byte("mimetypeapplication/vnd.oasis.opendocument.spreadsheet")):
		return model.ContentTypeODS
	case bytes.Contains(head, []byte("xl/")), bytes.Contains(head, []byte("[Content_Types].xml")):
		return model.ContentTypeXLSX
	default:
		return model.ContentTypeUnknown
	}
}

// sniffText applies line heuristics for documents and delimited text.
func sniffText(lines []string) model.ContentType {
	if len(lines) == 0 {
		return model.ContentTypeUnknown
	}
	first := lines[0]
	switch {
	case strings.HasPrefix(first, "["):
		return model.ContentTypeJSON
	case strings.HasPrefix(first, "{"):
		for _, line := range lines {
			if !strings.HasPrefix(line, "{") {
				return model.ContentTypeJSON
			}
		}
		return model.ContentTypeNDJSON
	case first == "---" || strings.HasPrefix(first, "- "):
		return model.ContentTypeYAML
	case tabular.ConsistentSeparators(lines, "\t"):
		return model.ContentTypeTSV
	case tabular.ConsistentSeparators(lines, ","):
		return model.ContentTypeCSV
	default:
		return model.ContentTypeUnknown
	}
}

// headLines returns the first non-empty lines of head. A trailing partial line
// of a full head is dropped.
func headLines(head []byte) []string {
	text := string(head)
	if len(head) >= SniffBytes {
		if i := strings.LastIndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
	}
	text = strings.TrimPrefix(text, "\ufeff")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == sniffLines {
			break
		}
	}
	return lines
}

// looksLikeLTSV reports whether every field of every line is a label:value pair.
// The first line must hold at least two fields.
func looksLikeLTSV(lines []string) bool {
	if len(lines) == 0 || !strings.Contains(lines[0], "\t") {
		return false
	}
	for _, line := range lines {
		for _, field := range strings.Split(line, "\t") {
			if !ltsvField.MatchString(field) {
				return false
			}
		}
	}
	return true
}

func describeResource(r *Resource) string {
	if r.Data != nil {
		return "data payload"
	}
	return r.Path
}
