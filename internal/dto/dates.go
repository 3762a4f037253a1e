package dto

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by query parameters and CSV exports.
const DateLayout = "2006-01-02"

// ParseDate accepts either YYYY-MM-DD or an RFC3339 timestamp.
// Calendar dates are interpreted as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
	}
	return t, nil
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDateBound parses an optional lower or upper bound of a date window.
// An empty value yields nil. Upper bounds given as a calendar date are extended to the end of that day.
func ParseDateBound(value string, upper bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	if upper && len(value) == len(DateLayout) {
		t = EndOfDay(t)
	}
	return &t, nil
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
