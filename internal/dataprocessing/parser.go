package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"deliverycli/internal/errors"
	"deliverycli/pkg/contracts/domain"
)

// rawPreviewLength bounds how much of an unrecognised report is quoted in
// the resulting error.
const rawPreviewLength = 500

// ParseReport converts the text of an MTO delivery report into a table with
// the five canonical columns. It fails with a format error when no header is
// recognised, when no data rows follow it, or when a required column cannot
// be resolved.
func ParseReport(raw string) (*domain.DeliveryTable, error) {
	lines := nonEmptyLines(raw)

	headerAt := findHeader(lines)
	if headerAt < 0 {
		return nil, errors.NewFormatError("could not find header: " + Shorten(raw, rawPreviewLength))
	}

	rows, err := readRecords(dataBlock(lines, headerAt))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.NewFormatError("no data rows detected")
	}

	header := normalizeHeader(rows[0])
	data := rows[1:]

	layout := detectLayout(header, data)
	if layout == domain.LayoutImplicitSeries {
		header, data = repairImplicitSeries(header, data)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	table := &domain.DeliveryTable{
		Layout:  layout,
		Columns: header,
		Records: make([]domain.DeliveryRecord, 0, len(data)),
	}
	for _, row := range data {
		symbol := strings.TrimSpace(cell(row, cols.symbol))
		if symbol == "" {
			continue
		}
		table.Records = append(table.Records, domain.DeliveryRecord{
			Symbol:                symbol,
			Series:                strings.TrimSpace(cell(row, cols.series)),
			QuantityTraded:        Coerce(cell(row, cols.qty)),
			DeliverableQuantity:   Coerce(cell(row, cols.deliv)),
			DeliverablePercentage: Coerce(cell(row, cols.pct)),
		})
	}

	return table, nil
}

// isLineBreak matches every line boundary a report may use, including bare
// CR and the Unicode line and paragraph separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

func nonEmptyLines(raw string) []string {
	var out []string
	for _, ln := range strings.FieldsFunc(raw, isLineBreak) {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// isHeader reports whether ln looks like the column header of either known
// layout.
func isHeader(ln string) bool {
	if !strings.Contains(ln, ",") {
		return false
	}
	low := strings.ToLower(ln)
	return (strings.Contains(low, "symbol") && strings.Contains(low, "series")) ||
		(strings.Contains(low, "record type") && strings.Contains(low, "name of security"))
}

func findHeader(lines []string) int {
	for i, ln := range lines {
		if isHeader(ln) {
			return i
		}
	}
	return -1
}

// dataBlock returns the header line followed by every later line containing a
// comma, up to the first "total" or "grand total" line.
func dataBlock(lines []string, headerAt int) []string {
	block := []string{lines[headerAt]}
	for _, ln := range lines[headerAt+1:] {
		low := strings.ToLower(ln)
		if strings.HasPrefix(low, "total") || strings.HasPrefix(low, "grand total") {
			break
		}
		if strings.Contains(ln, ",") {
			block = append(block, ln)
		}
	}
	return block
}

func readRecords(lines []string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewAppError(errors.ErrTypeFormat,
				fmt.Sprintf("malformed report line %d", len(rows)+1), err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
