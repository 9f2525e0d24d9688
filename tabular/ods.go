package tabular

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// odsContentFile is the zip member holding the spreadsheet body
const odsContentFile = "content.xml"

// maxODSRepeat caps table:number-*-repeated expansion of cells and rows, blank runs included
const maxODSRepeat = 10000

// parseODS reads the addressed sheet of an OpenDocument spreadsheet.
func parseODS(src Source, reader io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read ODS file: %w", err)
	}
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not an ODS archive: %w", ErrInvalidData, err)
	}

	var content *zip.File
	for _, f := range archive.File {
		if f.Name == odsContentFile {
			content = f
			break
		}
	}
	if content == nil {
		return nil, fmt.Errorf("%w: %s missing from ODS archive", ErrInvalidData, odsContentFile)
	}
	rc, err := content.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", odsContentFile, err)
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	sheets := doc.FindElements("//table:table")
	names := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		names = append(names, sheet.SelectAttrValue("table:name", ""))
	}
	name, err := resolveSheet(names, src.Address)
	if err != nil {
		return nil, err
	}
	var sheet *etree.Element
	for i, n := range names {
		if n == name {
			sheet = sheets[i]
			break
		}
	}
	return sheetDataset(src.TableName, odsRows(sheet))
}

// odsRows flattens a table:table element into string rows, expanding repeated
// rows and cells. Runs of empty cells or rows are only materialized when
// followed by content, so trailing padding never grows the sheet.
func odsRows(sheet *etree.Element) [][]string {
	var (
		rows         [][]string
		pendingBlank int
	)
	for _, rowEl := range sheet.FindElements(".//table:table-row") {
		row := odsCells(rowEl)
		repeat := repeatCount(rowEl, "table:number-rows-repeated")
		if len(row) == 0 {
			pendingBlank = min(pendingBlank+repeat, maxODSRepeat)
			continue
		}
		for range min(pendingBlank, maxODSRepeat) {
			rows = append(rows, nil)
		}
		pendingBlank = 0
		for range min(repeat, maxODSRepeat) {
			rows = append(rows, row)
		}
	}
	return rows
}

func odsCells(rowEl *etree.Element) []string {
	var (
		cells        []string
		pendingBlank int
	)
	for _, cellEl := range rowEl.ChildElements() {
		if cellEl.FullTag() != "table:table-cell" && cellEl.FullTag() != "table:covered-table-cell" {
			continue
		}
		value := odsCellValue(cellEl)
		repeat := repeatCount(cellEl, "table:number-columns-repeated")
		if value == "" {
			pendingBlank = min(pendingBlank+repeat, maxODSRepeat)
			continue
		}
		for range min(pendingBlank, maxODSRepeat) {
			cells = append(cells, "")
		}
		pendingBlank = 0
		for range min(repeat, maxODSRepeat) {
			cells = append(cells, value)
		}
	}
	return cells
}

// odsCellValue prefers the typed office:* value attributes over the display text.
func odsCellValue(cellEl *etree.Element) string {
	switch cellEl.SelectAttrValue("office:value-type", "") {
	case "float", "percentage", "currency":
		if v := cellEl.SelectAttrValue("office:value", ""); v != "" {
			return v
		}
	case "date":
		if v := cellEl.SelectAttrValue("office:date-value", ""); v != "" {
			return v
		}
	case "time":
		if v := cellEl.SelectAttrValue("office:time-value", ""); v != "" {
			return odsDuration(v)
		}
	case "boolean":
		if v := cellEl.SelectAttrValue("office:boolean-value", ""); v != "" {
			return v
		}
	}

	paragraphs := cellEl.SelectElements("text:p")
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		lines = append(lines, p.Text()+textOfChildren(p))
	}
	return strings.Join(lines, "\n")
}

// textOfChildren collects the text of inline children such as text:span.
func textOfChildren(el *etree.Element) string {
	var sb strings.Builder
	for _, child := range el.ChildElements() {
		switch child.FullTag() {
		case "text:s":
			n := repeatCount(child, "text:c")
			sb.WriteString(strings.Repeat(" ", n))
		default:
			sb.WriteString(child.Text())
			sb.WriteString(textOfChildren(child))
		}
		sb.WriteString(child.Tail())
	}
	return sb.String()
}

// odsDuration converts an ISO 8601 duration such as PT10H30M00S to 10:30:00.
func odsDuration(v string) string {
	rest, ok := strings.CutPrefix(v, "PT")
	if !ok {
		return v
	}
	parts := map[byte]string{'H': "00", 'M': "00", 'S': "00"}
	num := ""
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch c {
		case 'H', 'M', 'S':
			if len(num) == 1 {
				num = "0" + num
			}
			if c == 'S' {
				// drop fractional seconds
				num, _, _ = strings.Cut(num, ".")
				if len(num) == 1 {
					num = "0" + num
				}
			}
			parts[c] = num
			num = ""
		default:
			num += string(c)
		}
	}
	return parts['H'] + ":" + parts['M'] + ":" + parts['S']
}

func repeatCount(el *etree.Element, attr string) int {
	n, err := strconv.Atoi(el.SelectAttrValue(attr, "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
