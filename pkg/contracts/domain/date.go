package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISODateLayout names artifacts and is the accepted CLI date format.
	ISODateLayout = "2006-01-02"
	// ArchiveDateLayout is the ddmmyyyy stamp used in archive file names.
	ArchiveDateLayout = "02012006"
	// TodayToken selects the current local date.
	TodayToken = "TODAY"
)

// ParseTargetDate resolves TODAY (any case) or a YYYY-MM-DD string to a
// calendar date at midnight.
func ParseTargetDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, TodayToken) {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.ParseInLocation(ISODateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid target date %q: expected %s or YYYY-MM-DD", s, TodayToken)
	}
	return d, nil
}

// PreviousCalendarDay returns d minus one calendar day. Weekends and
// exchange holidays are not skipped.
func PreviousCalendarDay(d time.Time) time.Time {
	return d.AddDate(0, 0, -1)
}

// FormatISODate formats d as YYYY-MM-DD.
func FormatISODate(d time.Time) string {
	return d.Format(ISODateLayout)
}
