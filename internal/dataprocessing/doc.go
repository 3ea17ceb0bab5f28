// Package dataprocessing turns raw MTO delivery reports into normalized
// delivery tables.
//
// # Parsing
//
// ParseReport scans the report for its column header, keeps the comma
// separated lines that follow it up to the first "total" line, and projects
// the recognised columns onto the five canonical fields:
//
//	SYMBOL, SERIES, QTY_TRADED, DELIV_QTY, DELIV_PCT
//
// Two header layouts are known. The standard layout names every column. The
// implicit-series layout names the security in NAME_OF_SECURITY and omits a
// SERIES header although its data rows carry one; ParseReport detects it and
// inserts the missing header before resolving columns.
//
// The deliverable percentage column is found by an ordered list of rules and
// the first rule with a match wins.
//
// # Coercion
//
// Coerce reads numeric cells leniently: grouping commas and percent signs
// are stripped, and placeholders or malformed values become nil instead of
// errors.
//
//	table, err := dataprocessing.ParseReport(raw)
//	if err != nil {
//	    return err // format error
//	}
package dataprocessing
