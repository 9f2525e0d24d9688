package model

import (
	"path/filepath"
	"strings"
)

// ContentType represents a supported tabular resource format
type ContentType int

const (
	// ContentTypeUnknown means the format has not been resolved
	ContentTypeUnknown ContentType = iota
	// ContentTypeCSV represents comma-separated values
	ContentTypeCSV
	// ContentTypeTSV represents tab-separated values
	ContentTypeTSV
	// ContentTypeLTSV represents labeled tab-separated values
	ContentTypeLTSV
	// ContentTypeNDJSON represents newline-delimited JSON objects
	ContentTypeNDJSON
	// ContentTypeJSON represents a JSON document (array of objects)
	ContentTypeJSON
	// ContentTypeYAML represents a YAML document (sequence of mappings)
	ContentTypeYAML
	// ContentTypeXLSX represents an Office Open XML workbook
	ContentTypeXLSX
	// ContentTypeODS represents an OpenDocument spreadsheet
	ContentTypeODS
	// ContentTypeParquet represents an Apache Parquet file
	ContentTypeParquet
	// ContentTypeHTML represents an HTML document containing tables
	ContentTypeHTML
)

// File extensions
const (
	// ExtCSV is the CSV file extension
	ExtCSV = ".csv"
	// ExtTSV is the TSV file extension
	ExtTSV = ".tsv"
	// ExtTAB is an alternative TSV file extension
	ExtTAB = ".tab"
	// ExtLTSV is the LTSV file extension
	ExtLTSV = ".ltsv"
	// ExtNDJSON is the NDJSON file extension
	ExtNDJSON = ".ndjson"
	// ExtJSONL is an alternative NDJSON file extension
	ExtJSONL = ".jsonl"
	// ExtJSON is the JSON file extension
	ExtJSON = ".json"
	// ExtYAML is the YAML file extension
	ExtYAML = ".yaml"
	// ExtYML is the short YAML file extension
	ExtYML = ".yml"
	// ExtXLSX is the Excel XLSX file extension
	ExtXLSX = ".xlsx"
	// ExtODS is the OpenDocument spreadsheet extension
	ExtODS = ".ods"
	// ExtParquet is the Parquet file extension
	ExtParquet = ".parquet"
	// ExtHTML is the HTML file extension
	ExtHTML = ".html"
	// ExtHTM is the short HTML file extension
	ExtHTM = ".htm"
)

type contentTypeInfo struct {
	name     string
	mime     string
	suffixes []string
}

var contentTypes = map[ContentType]contentTypeInfo{
	ContentTypeCSV:     {"csv", "text/csv", []string{ExtCSV}},
	ContentTypeTSV:     {"tsv", "text/tab-separated-values", []string{ExtTSV, ExtTAB}},
	ContentTypeLTSV:    {"ltsv", "text/x-ltsv", []string{ExtLTSV}},
	ContentTypeNDJSON:  {"ndjson", "application/x-ndjson", []string{ExtNDJSON, ExtJSONL}},
	ContentTypeJSON:    {"json", "application/json", []string{ExtJSON}},
	ContentTypeYAML:    {"yaml", "application/yaml", []string{ExtYAML, ExtYML}},
	ContentTypeXLSX:    {"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []string{ExtXLSX}},
	ContentTypeODS:     {"ods", "application/vnd.oasis.opendocument.spreadsheet", []string{ExtODS}},
	ContentTypeParquet: {"parquet", "application/vnd.apache.parquet", []string{ExtParquet}},
	ContentTypeHTML:    {"html", "text/html", []string{ExtHTML, ExtHTM}},
}

// AllContentTypes returns every known content type in declaration order.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypeCSV, ContentTypeTSV, ContentTypeLTSV, ContentTypeNDJSON,
		ContentTypeJSON, ContentTypeYAML, ContentTypeXLSX, ContentTypeODS,
		ContentTypeParquet, ContentTypeHTML,
	}
}

// String returns the short name of the content type ("csv", "ods", ...)
func (ct ContentType) String() string {
	if info, ok := contentTypes[ct]; ok {
		return info.name
	}
	return "unknown"
}

// MIME returns the media type of the content type
func (ct ContentType) MIME() string {
	return contentTypes[ct].mime
}

// Suffix returns the canonical file extension, including the leading dot
func (ct ContentType) Suffix() string {
	if info, ok := contentTypes[ct]; ok {
		return info.suffixes[0]
	}
	return ""
}

// IsKnown reports whether the content type was resolved
func (ct ContentType) IsKnown() bool {
	_, ok := contentTypes[ct]
	return ok
}

// IsLineOriented reports whether rows can be read from a bounded prefix of the payload
func (ct ContentType) IsLineOriented() bool {
	switch ct {
	case ContentTypeCSV, ContentTypeTSV, ContentTypeLTSV, ContentTypeNDJSON:
		return true
	default:
		return false
	}
}

// ParseContentType resolves a caller supplied type string.
// It accepts the short name ("ods"), the file suffix (".ods") and the MIME value.
func ParseContentType(s string) (ContentType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return ContentTypeUnknown, false
	}
	for _, ct := range AllContentTypes() {
		info := contentTypes[ct]
		if s == info.name || s == info.mime {
			return ct, true
		}
		for _, suffix := range info.suffixes {
			if s == suffix || "."+s == suffix {
				return ct, true
			}
		}
	}
	return ContentTypeUnknown, false
}

// ContentTypeFromPath detects the content type from the file extension,
// ignoring compression extensions.
func ContentTypeFromPath(path string) ContentType {
	base := TrimCompressionExtension(path)
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return ContentTypeUnknown
	}
	ct, _ := ParseContentType(ext)
	return ct
}
