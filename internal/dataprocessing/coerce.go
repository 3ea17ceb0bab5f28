package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// Coerce converts a report cell such as "1,234" or "12.5%" to a float.
// Blank cells, "-", "NA", NaN, infinities and anything that does not parse
// yield nil.
func Coerce(s string) *float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)

	switch s {
	case "", "-", "NA":
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Shorten returns at most n characters of text with runs of whitespace
// collapsed, for quoting report or page content in log lines and error
// messages.
func Shorten(text string, n int) string {
	if n < 0 {
		n = 0
	}
	count := 0
	for i := range text {
		if count == n {
			text = text[:i]
			break
		}
		count++
	}
	return strings.Join(strings.Fields(text), " ")
}
