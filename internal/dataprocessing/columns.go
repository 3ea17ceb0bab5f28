package dataprocessing

import (
	"fmt"
	"strings"

	"deliverycli/internal/errors"
	"deliverycli/pkg/contracts/domain"
)

// Candidate header names per logical column, in priority order.
var (
	symbolCandidates = []string{"SYMBOL", "NAME_OF_SECURITY"}
	seriesCandidates = []string{"SERIES"}
	qtyCandidates    = []string{"QTY_TRADED", "QTY_TRADED_(NOS)", "QTY_TRADED_NOS", "QUANTITY_TRADED"}
	delivCandidates  = []string{
		"DELIVERABLE_QTY",
		"DELIVERABLE_QTY_(NOS)",
		"DELIVERABLE_QTY_NOS",
		"DELIVERABLE_QUANTITY(GROSS_ACROSS_CLIENT_LEVEL)",
		"DELIV_QTY",
	}
)

// percentRule recognises a deliverable percentage header.
type percentRule struct {
	name  string
	match func(col string) bool
}

func containsAll(col string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(col, p) {
			return false
		}
	}
	return true
}

// percentRules are evaluated in order and the first rule matching any column
// wins, even when a later rule would match an earlier column.
var percentRules = []percentRule{
	{"deliverable_traded_pct", func(c string) bool { return containsAll(c, "DELIVERABLE", "TRADED", "PCT") }},
	{"dly_pct", func(c string) bool { return containsAll(c, "DLY", "PCT") }},
	{"pct_suffix", func(c string) bool { return strings.HasSuffix(c, "PCT") }},
	{"deliverable_to_traded_ratio", func(c string) bool {
		return containsAll(c, "DELIVERABLE", "TRADED") &&
			(strings.Contains(c, "TO_TRADED_QUANTITY") || strings.Contains(c, "TO_TRADED_QTY"))
	}},
}

// columnIndices maps the five output fields to positions in a normalized header.
type columnIndices struct {
	symbol  int
	series  int
	qty     int
	deliv   int
	pct     int
	pctRule string
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func pick(header []string, logical string, candidates []string) (int, error) {
	for _, c := range candidates {
		if i := indexOf(header, c); i >= 0 {
			return i, nil
		}
	}
	return -1, errors.NewFormatError(fmt.Sprintf("missing %s column (candidates %v); got %v", logical, candidates, header)).
		WithContext("candidates", candidates).
		WithContext("columns", header)
}

func pickPercent(header []string) (int, string, error) {
	for _, rule := range percentRules {
		for i, c := range header {
			if rule.match(c) {
				return i, rule.name, nil
			}
		}
	}
	return -1, "", errors.NewFormatError(fmt.Sprintf("missing %s column; got %v", domain.ColumnDelivPct, header)).
		WithContext("columns", header)
}

// resolveColumns locates every logical column in a normalized header.
func resolveColumns(header []string) (columnIndices, error) {
	var idx columnIndices
	var err error

	if idx.symbol, err = pick(header, domain.ColumnSymbol, symbolCandidates); err != nil {
		return idx, err
	}
	if idx.series, err = pick(header, domain.ColumnSeries, seriesCandidates); err != nil {
		return idx, err
	}
	if idx.qty, err = pick(header, domain.ColumnQtyTraded, qtyCandidates); err != nil {
		return idx, err
	}
	if idx.deliv, err = pick(header, domain.ColumnDelivQty, delivCandidates); err != nil {
		return idx, err
	}
	if idx.pct, idx.pctRule, err = pickPercent(header); err != nil {
		return idx, err
	}
	return idx, nil
}
