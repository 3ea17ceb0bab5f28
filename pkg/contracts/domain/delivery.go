package domain

// Canonical column names of a clean delivery CSV, in output order.
const (
	ColumnSymbol        = "SYMBOL"
	ColumnSeries        = "SERIES"
	ColumnQtyTraded     = "QTY_TRADED"
	ColumnDelivQty      = "DELIV_QTY"
	ColumnDelivPct      = "DELIV_PCT"
	EquitySeries        = "EQ"
	DefaultRankingLimit = 10
)

// DeliveryColumns lists the clean CSV header.
var DeliveryColumns = []string{ColumnSymbol, ColumnSeries, ColumnQtyTraded, ColumnDelivQty, ColumnDelivPct}

// RankingColumns lists the ranking CSV header.
var RankingColumns = []string{"symbol", "today_pct", "prev_pct", "change_pct", "date_today", "date_prev"}

// DeliveryRecord is one security line of a normalized delivery report.
// Numeric fields are nil when the source cell could not be read as a number.
type DeliveryRecord struct {
	Symbol                string   `json:"symbol"`
	Series                string   `json:"series"`
	QuantityTraded        *float64 `json:"quantity_traded"`
	DeliverableQuantity   *float64 `json:"deliverable_quantity"`
	DeliverablePercentage *float64 `json:"deliverable_percentage"`
}

// ReportLayout tags which known header layout a raw report used.
type ReportLayout string

const (
	// LayoutStandard reports carry every column they use in the header.
	LayoutStandard ReportLayout = "standard"
	// LayoutImplicitSeries reports name the security in NAME_OF_SECURITY and
	// carry a series value in the data rows without a SERIES header.
	LayoutImplicitSeries ReportLayout = "implicit_series"
)

// DeliveryTable is an ordered set of delivery records for one calendar date.
type DeliveryTable struct {
	Date    string           `json:"date,omitempty"`
	Layout  ReportLayout     `json:"layout,omitempty"`
	Columns []string         `json:"source_columns,omitempty"`
	Records []DeliveryRecord `json:"records"`
}

// Len returns the number of records.
func (t *DeliveryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// FilterSeries returns the records whose series equals series exactly.
func (t *DeliveryTable) FilterSeries(series string) []DeliveryRecord {
	if t == nil {
		return nil
	}
	out := make([]DeliveryRecord, 0, len(t.Records))
	for _, r := range t.Records {
		if r.Series == series {
			out = append(out, r)
		}
	}
	return out
}

// RankedEntry is one line of the day-over-day delivery percentage ranking.
type RankedEntry struct {
	Symbol    string   `json:"symbol"`
	TodayPct  *float64 `json:"today_pct"`
	PrevPct   *float64 `json:"prev_pct"`
	ChangePct *float64 `json:"change_pct"`
	DateToday string   `json:"date_today"`
	DatePrev  string   `json:"date_prev"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
