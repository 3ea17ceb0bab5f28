// Package ranking compares two delivery tables and ranks symbols by the
// change in delivery percentage.
package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"deliverycli/pkg/contracts/domain"
)

// Options controls a ranking run.
type Options struct {
	// Series keeps only records of this series; empty means domain.EquitySeries.
	Series string
	// TopN truncates the result; zero or less means domain.DefaultRankingLimit.
	TopN      int
	DateToday time.Time
	DatePrev  time.Time
}

func (o Options) withDefaults() Options {
	if o.Series == "" {
		o.Series = domain.EquitySeries
	}
	if o.TopN <= 0 {
		o.TopN = domain.DefaultRankingLimit
	}
	return o
}

// Rank joins today and prev on symbol and returns the entries with the
// largest increase in delivery percentage first. Symbols present in only one
// table are dropped. A symbol that repeats yields one entry per pairing.
// Entries with an unknown change sort after all others.
func Rank(today, prev *domain.DeliveryTable, opts Options) []domain.RankedEntry {
	opts = opts.withDefaults()
	dateToday := domain.FormatISODate(opts.DateToday)
	datePrev := domain.FormatISODate(opts.DatePrev)

	prevBySymbol := make(map[string][]*float64)
	for _, r := range prev.FilterSeries(opts.Series) {
		prevBySymbol[r.Symbol] = append(prevBySymbol[r.Symbol], r.DeliverablePercentage)
	}

	var entries []domain.RankedEntry
	for _, r := range today.FilterSeries(opts.Series) {
		for _, prevPct := range prevBySymbol[r.Symbol] {
			entries = append(entries, domain.RankedEntry{
				Symbol:    r.Symbol,
				TodayPct:  r.DeliverablePercentage,
				PrevPct:   prevPct,
				ChangePct: Change(r.DeliverablePercentage, prevPct),
				DateToday: dateToday,
				DatePrev:  datePrev,
			})
		}
	}

	SortByChange(entries)

	if len(entries) > opts.TopN {
		entries = entries[:opts.TopN]
	}
	return entries
}

// Change returns today - prev, or nil when either side is unknown or not
// finite. The subtraction is done in decimal so 80.3 - 70.1 gives 10.2.
func Change(today, prev *float64) *float64 {
	if !finite(today) || !finite(prev) {
		return nil
	}
	d := decimal.NewFromFloat(*today).Sub(decimal.NewFromFloat(*prev))
	v := d.InexactFloat64()
	return &v
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// SortByChange orders entries by descending change with unknown changes
// last. Ties keep their join order.
func SortByChange(entries []domain.RankedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].ChangePct, entries[j].ChangePct
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}
