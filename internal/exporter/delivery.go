package exporter

import (
	"fmt"
	"strings"

	"deliverycli/internal/dataprocessing"
	"deliverycli/internal/errors"
	"deliverycli/pkg/contracts/domain"
)

// WriteDeliveryTable writes table as a clean delivery CSV. The output depends
// only on the records, so re-writing the same table gives identical bytes.
func (w *CSVWriter) WriteDeliveryTable(filePath string, table *domain.DeliveryTable) error {
	records := make([][]string, 0, table.Len())
	for _, r := range table.Records {
		records = append(records, []string{
			r.Symbol,
			r.Series,
			formatFloat(r.QuantityTraded),
			formatFloat(r.DeliverableQuantity),
			formatFloat(r.DeliverablePercentage),
		})
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers: domain.DeliveryColumns,
		Records: records,
	})
}

// ReadDeliveryTable loads a clean delivery CSV. Blank numeric cells read back
// as nil and rows without a symbol are skipped.
func ReadDeliveryTable(filePath string) (*domain.DeliveryTable, error) {
	header, rows, err := ReadCSV(filePath)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	cols := make([]int, len(domain.DeliveryColumns))
	for i, name := range domain.DeliveryColumns {
		pos, ok := index[name]
		if !ok {
			return nil, errors.NewFormatError(fmt.Sprintf("missing %s column in %s; got %v", name, filePath, header)).
				WithContext("path", filePath)
		}
		cols[i] = pos
	}

	get := func(row []string, col int) string {
		if cols[col] >= len(row) {
			return ""
		}
		return row[cols[col]]
	}

	table := &domain.DeliveryTable{
		Columns: header,
		Records: make([]domain.DeliveryRecord, 0, len(rows)),
	}
	for _, row := range rows {
		symbol := strings.TrimSpace(get(row, 0))
		if symbol == "" {
			continue
		}
		table.Records = append(table.Records, domain.DeliveryRecord{
			Symbol:                symbol,
			Series:                strings.TrimSpace(get(row, 1)),
			QuantityTraded:        dataprocessing.Coerce(get(row, 2)),
			DeliverableQuantity:   dataprocessing.Coerce(get(row, 3)),
			DeliverablePercentage: dataprocessing.Coerce(get(row, 4)),
		})
	}
	return table, nil
}
