package tabular

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/ddlinfer/domain/model"
)

// parseLTSV parses labeled tab-separated values.
// Columns appear in the order their labels are first seen.
func parseLTSV(tableName string, reader io.Reader, maxRows int) (*Dataset, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		labels  []string
		index   = make(map[string]int)
		rows    []map[string]string
		lineNum int
	)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if maxRows >= 0 && len(rows) >= maxRows {
			break
		}

		row := make(map[string]string)
		for pair := range strings.SplitSeq(line, "\t") {
			key, value, ok := strings.Cut(pair, ":")
			if !ok {
				return nil, fmt.Errorf("%w: line %d: field %q has no label", ErrInvalidData, lineNum, pair)
			}
			key = strings.TrimSpace(key)
			if _, seen := index[key]; !seen {
				index[key] = len(labels)
				labels = append(labels, key)
			}
			row[key] = value
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read LTSV: %w", err)
	}
	if len(labels) == 0 {
		return nil, ErrEmptyData
	}

	header, err := normalizeHeader(labels)
	if err != nil {
		return nil, err
	}
	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		record := make(model.Record, len(labels))
		for i, label := range labels {
			record[i] = row[label]
		}
		records = append(records, record)
	}
	return NewDataset(model.NewTable(tableName, header, records)), nil
}
