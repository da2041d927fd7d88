package util

import (
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateCell parses a spreadsheet cell as a date or timestamp. Bare numbers are
// rejected so that numeric columns are never mistaken for dates.
func ParseDateCell(s string) (time.Time, error) {
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Time{}, fmt.Errorf("numeric value is not a date: %s", s)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s: %w", s, err)
	}
	return t.UTC(), nil
}

// DateLabel formats t as a date when it has no clock component, otherwise as RFC3339.
func DateLabel(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
