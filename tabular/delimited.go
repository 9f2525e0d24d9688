package tabular

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/ddlinfer/domain/model"
)

// parseDelimited parses CSV or TSV data. The first non-blank row is the header.
func parseDelimited(tableName string, reader io.Reader, delimiter rune, maxRows int) (*Dataset, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.ReuseRecord = false

	var (
		header  model.Header
		records []model.Record
	)
	for maxRows < 0 || len(records) < maxRows {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
		}
		if header == nil {
			if isBlankRow(row) {
				continue
			}
			if header, err = normalizeHeader(row); err != nil {
				return nil, err
			}
			continue
		}
		if isBlankRow(row) {
			continue
		}
		records = append(records, trimRow(row, len(header)))
	}

	if header == nil {
		return nil, ErrEmptyData
	}
	return NewDataset(model.NewTable(tableName, header, records)), nil
}

// delimiterSniffBytes is the size of the head inspected by delimiter sniffing
const delimiterSniffBytes = 8192

// delimiterSniffLines is the number of leading non-blank lines compared
const delimiterSniffLines = 5

// delimiterCandidates are tried in order; the first consistent one wins.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// SniffDelimiter returns the first of ',', ';', tab and '|' that occurs the same,
// non-zero number of times on every leading line of head. It returns ',' and
// false when no candidate is consistent.
func SniffDelimiter(head []byte) (rune, bool) {
	return sniffDelimiter(head, false)
}

func sniffDelimiter(head []byte, truncated bool) (rune, bool) {
	lines := leadingLines(head, truncated)
	if len(lines) == 0 {
		return ',', false
	}
	for _, d := range delimiterCandidates {
		if ConsistentSeparators(lines, string(d)) {
			return d, true
		}
	}
	return ',', false
}

// sniffReaderDelimiter peeks at the head of r without consuming it.
func sniffReaderDelimiter(r io.Reader) (rune, io.Reader, error) {
	br := bufio.NewReaderSize(r, delimiterSniffBytes)
	head, err := br.Peek(delimiterSniffBytes)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, nil, fmt.Errorf("failed to read resource: %w", err)
	}
	d, _ := sniffDelimiter(head, len(head) == delimiterSniffBytes)
	return d, br, nil
}

// leadingLines returns up to delimiterSniffLines non-blank lines of head.
// The last line of a truncated head is incomplete and dropped.
func leadingLines(head []byte, truncated bool) []string {
	text := strings.TrimPrefix(string(head), "\ufeff")
	if truncated {
		if i := strings.LastIndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == delimiterSniffLines {
			break
		}
	}
	return lines
}

// ConsistentSeparators reports whether every line contains sep the same, non-zero number of times.
func ConsistentSeparators(lines []string, sep string) bool {
	if len(lines) == 0 {
		return false
	}
	want := strings.Count(lines[0], sep)
	if want == 0 {
		return false
	}
	for _, line := range lines[1:] {
		if strings.Count(line, sep) != want {
			return false
		}
	}
	return true
}
