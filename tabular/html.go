package tabular

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/ddlinfer/domain/model"
)

// parseHTML reads a <table> element. The address selects a table by its id
// attribute or 1-based position; the first table is used when empty.
func parseHTML(src Source, reader io.Reader) (*Dataset, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, ErrEmptyData
	}
	table, err := selectHTMLTable(tables, src.Address)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// skip rows of nested tables
		if tr.ParentsFiltered("table").First().Get(0) != table.Get(0) {
			return
		}
		var row []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			text := strings.Join(strings.Fields(cell.Text()), " ")
			span, _ := strconv.Atoi(cell.AttrOr("colspan", "1"))
			if span < 1 {
				span = 1
			}
			for range span {
				row = append(row, text)
			}
		})
		if !isBlankRow(row) {
			rows = append(rows, row)
		}
	})
	if len(rows) == 0 {
		return nil, ErrEmptyData
	}

	header, err := normalizeHeader(rows[0])
	if err != nil {
		return nil, err
	}
	records := make([]model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, trimRow(row, len(header)))
	}
	return NewDataset(model.NewTable(src.TableName, header, records)), nil
}

func selectHTMLTable(tables *goquery.Selection, address string) (*goquery.Selection, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return tables.First(), nil
	}
	if byID := tables.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == address
	}); byID.Length() > 0 {
		return byID.First(), nil
	}
	if n, err := strconv.Atoi(address); err == nil && n >= 1 && n <= tables.Length() {
		return tables.Eq(n - 1), nil
	}
	return nil, fmt.Errorf("%w: table %q", ErrSheetNotFound, address)
}
