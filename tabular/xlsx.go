package tabular

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/ddlinfer/domain/model"
)

// resolveSheet picks a sheet by exact name, then by 1-based index. An empty
// address selects the first sheet.
func resolveSheet(names []string, address string) (string, error) {
	if len(names) == 0 {
		return "", ErrEmptyData
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return names[0], nil
	}
	for _, name := range names {
		if name == address {
			return name, nil
		}
	}
	if n, err := strconv.Atoi(address); err == nil && n >= 1 && n <= len(names) {
		return names[n-1], nil
	}
	return "", fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, address, strings.Join(names, ", "))
}

// sheetDataset turns raw sheet rows into a dataset: leading blank rows are skipped,
// the first remaining row is the header.
func sheetDataset(tableName string, rows [][]string) (*Dataset, error) {
	start := 0
	for start < len(rows) && isBlankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, ErrEmptyData
	}

	header, err := normalizeHeader(rows[start])
	if err != nil {
		return nil, err
	}
	records := make([]model.Record, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		records = append(records, trimRow(row, len(header)))
	}
	return NewDataset(model.NewTable(tableName, header, records)), nil
}

// parseXLSX reads the addressed worksheet of an XLSX workbook.
func parseXLSX(src Source, reader io.Reader) (*Dataset, error) {
	xlsxFile, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetName, err := resolveSheet(xlsxFile.GetSheetList(), src.Address)
	if err != nil {
		return nil, err
	}

	rows, err := xlsxFile.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %s: %w", sheetName, err)
	}
	return sheetDataset(src.TableName, rows)
}
