package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"deliverycli/pkg/contracts/domain"
)

// PrintRanking writes the human-readable ranking report: a title line, the
// date line and a right-aligned table with 2-decimal percentages.
func PrintRanking(out io.Writer, entries []domain.RankedEntry, date string, limit int) error {
	if limit <= 0 {
		limit = domain.DefaultRankingLimit
	}

	if _, err := fmt.Fprintf(out, "Top %d increase in delivery percentage (largest first)\nDate: %s\n", limit, date); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(domain.RankingColumns, "\t")+"\t")
	for _, e := range entries {
		fmt.Fprintln(tw, strings.Join([]string{
			e.Symbol,
			formatFixed(e.TodayPct),
			formatFixed(e.PrevPct),
			formatFixed(e.ChangePct),
			e.DateToday,
			e.DatePrev,
		}, "\t")+"\t")
	}
	return tw.Flush()
}
