// Package exporter persists delivery tables and rankings.
//
// CSVWriter writes the clean delivery CSV (SYMBOL, SERIES, QTY_TRADED,
// DELIV_QTY, DELIV_PCT) and the ranking CSV (symbol, today_pct, prev_pct,
// change_pct, date_today, date_prev). Numbers are written in their shortest
// exact form and nulls as empty cells, so writing the same table twice gives
// byte-identical files.
//
// WriteRankingXLSX produces the same ranking as an Excel workbook and
// PrintRanking renders it as a console report.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	if err := w.WriteDeliveryTable(paths.CleanCSVPath(date), table); err != nil {
//	    return err
//	}
//
//	table, err := exporter.ReadDeliveryTable(paths.CleanCSVPath(date))
package exporter
