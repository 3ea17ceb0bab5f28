package exporter

import (
	"fmt"
	"strconv"
)

// formatFloat writes the shortest exact representation of v, or an empty
// cell for nil.
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// formatFixed formats v with exactly 2 decimal places for display, or blank
// for nil.
func formatFixed(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
