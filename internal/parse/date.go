package parse

import (
	"fmt"
	"strings"
	"time"
)

// Accepted layouts for stay dates, most specific last. Calendar pickers
// send plain dates; JS clients often send full RFC3339 timestamps.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// StayDate parses a check-in or check-out value and returns midnight UTC of
// the calendar date it names. Timestamps are converted to loc first so that
// "2024-03-01T23:30:00-05:00" lands on the hotel's 1 March, not UTC's 2 March.
func StayDate(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		y, m, d := t.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %q", raw)
}
