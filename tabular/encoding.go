package tabular

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeText converts a text payload to UTF-8.
// A byte order mark always wins; otherwise the named encoding is used, UTF-8 when empty.
func decodeText(reader io.Reader, name string) (io.Reader, error) {
	fallback, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(reader, unicode.BOMOverride(fallback.NewDecoder())), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown text encoding %q", ErrUnsupportedFormat, name)
	}
	return enc, nil
}

// ValidEncoding reports whether name is a known text encoding label.
func ValidEncoding(name string) bool {
	_, err := lookupEncoding(name)
	return err == nil
}
