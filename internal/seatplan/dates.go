package seatplan

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for assignment keys.
const DateLayout = "2006-01-02"

// DateKey formats the calendar date of t, in t's own location, as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD key into midnight UTC of that date.
func ParseDate(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("seatplan: invalid date %q: %w", key, err)
	}
	return t, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
