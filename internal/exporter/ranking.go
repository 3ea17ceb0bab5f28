package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"deliverycli/internal/dataprocessing"
	"deliverycli/internal/errors"
	"deliverycli/pkg/contracts/domain"
)

// RankingSheet is the worksheet name used in ranking workbooks.
const RankingSheet = "Top10"

// WriteRanking writes entries to a ranking CSV.
func (w *CSVWriter) WriteRanking(filePath string, entries []domain.RankedEntry) error {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{
			e.Symbol,
			formatFloat(e.TodayPct),
			formatFloat(e.PrevPct),
			formatFloat(e.ChangePct),
			e.DateToday,
			e.DatePrev,
		})
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers: domain.RankingColumns,
		Records: records,
	})
}

// ReadRanking loads a ranking CSV written by WriteRanking.
func ReadRanking(filePath string) ([]domain.RankedEntry, error) {
	header, rows, err := ReadCSV(filePath)
	if err != nil {
		return nil, err
	}
	if len(header) < len(domain.RankingColumns) {
		return nil, errors.NewFormatError(fmt.Sprintf("unexpected ranking header in %s: %v", filePath, header))
	}

	entries := make([]domain.RankedEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) < len(domain.RankingColumns) {
			continue
		}
		entries = append(entries, domain.RankedEntry{
			Symbol:    row[0],
			TodayPct:  dataprocessing.Coerce(row[1]),
			PrevPct:   dataprocessing.Coerce(row[2]),
			ChangePct: dataprocessing.Coerce(row[3]),
			DateToday: row[4],
			DatePrev:  row[5],
		})
	}
	return entries, nil
}

// WriteRankingXLSX writes entries to a workbook with a single Top10 sheet.
// Null values are left as empty cells.
func WriteRankingXLSX(filePath string, entries []domain.RankedEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RankingSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(domain.RankingColumns))
	for i, c := range domain.RankingColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(RankingSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(RankingSheet, "A1", "F1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.Symbol, cellValue(e.TodayPct), cellValue(e.PrevPct), cellValue(e.ChangePct), e.DateToday, e.DatePrev}
		if err := f.SetSheetRow(RankingSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(RankingSheet, "A", "F", 14); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err).WithContext("path", filePath)
	}
	if err := f.SaveAs(filePath); err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", filePath)
	}
	return nil
}

func cellValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
