package testutil

import (
	"fmt"
	"strings"
	"time"
)

// MTORow is one security line of a raw delivery report.
type MTORow struct {
	Symbol  string
	Series  string
	Traded  string
	Deliv   string
	Percent string
}

// MTOReport renders rows in the archive's implicit-series layout: a banner,
// a file record, the record-type header and type-20 data lines. Numeric
// cells are written verbatim so tests can supply "1,204,551", "-" or "NA".
func MTOReport(date time.Time, rows ...MTORow) string {
	var b strings.Builder
	stamp := strings.ToUpper(date.Format("02-Jan-2006"))
	fmt.Fprintf(&b, "Security Wise Delivery Position - Compulsory Rolling as on %s,,,,,,\n", stamp)
	fmt.Fprintf(&b, "10,MTO,%s,4135628,0000001\n", date.Format("02012006"))
	b.WriteString("Record Type,Sr No,Name of Security,Quantity Traded,Deliverable Quantity(gross across client level),% of Deliverable Quantity to Traded Quantity\n")
	for i, r := range rows {
		fmt.Fprintf(&b, "20,%d,%s,%s,%s,%s,%s\n", i+1, r.Symbol, r.Series, quote(r.Traded), quote(r.Deliv), quote(r.Percent))
	}
	return b.String()
}

func quote(cell string) string {
	if strings.Contains(cell, ",") {
		return `"` + cell + `"`
	}
	return cell
}
