package dataprocessing

import (
	"strings"

	"deliverycli/pkg/contracts/domain"
)

const (
	nameOfSecurity = "NAME_OF_SECURITY"
	// seriesFallbackPosition is where SERIES goes when the header has no
	// NAME_OF_SECURITY to anchor it.
	seriesFallbackPosition = 3
)

var headerReplacer = strings.NewReplacer(" ", "_", "%", "PCT")

// normalizeHeader upper-cases header cells, joins words with underscores and
// spells "%" as PCT.
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = headerReplacer.Replace(strings.ToUpper(strings.TrimSpace(h)))
	}
	return out
}

// detectLayout distinguishes the two known report shapes. The implicit-series
// shape names the security in NAME_OF_SECURITY, has no SERIES header, and
// carries one extra (series) field in its data rows.
func detectLayout(header []string, rows [][]string) domain.ReportLayout {
	if len(rows) == 0 {
		return domain.LayoutStandard
	}
	if indexOf(header, nameOfSecurity) < 0 || indexOf(header, domain.ColumnSeries) >= 0 {
		return domain.LayoutStandard
	}
	if len(rows[0]) != len(header)+1 {
		return domain.LayoutStandard
	}
	return domain.LayoutImplicitSeries
}

// seriesPosition is the header index at which the implicit SERIES column is
// inserted.
func seriesPosition(header []string) int {
	if i := indexOf(header, nameOfSecurity); i >= 0 {
		return i + 1
	}
	return seriesFallbackPosition
}

// repairImplicitSeries inserts a SERIES header after NAME_OF_SECURITY. Rows
// that have exactly the original header width get an empty series cell at
// the same position; all other rows are kept as they are.
func repairImplicitSeries(header []string, rows [][]string) ([]string, [][]string) {
	at := seriesPosition(header)
	if at > len(header) {
		at = len(header)
	}
	width := len(header)

	repaired := insertAt(header, at, domain.ColumnSeries)

	fixed := make([][]string, len(rows))
	for i, r := range rows {
		if len(r) == width {
			r = insertAt(r, at, "")
		}
		fixed[i] = r
	}
	return repaired, fixed
}

func insertAt(s []string, at int, v string) []string {
	out := make([]string, 0, len(s)+1)
	out = append(out, s[:at]...)
	out = append(out, v)
	return append(out, s[at:]...)
}
