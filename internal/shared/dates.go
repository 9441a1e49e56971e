package shared

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates. Callers normalise any
// local-calendar input before submitting parameters.
const DateLayout = "2006-01-02"

// ErrInvalidDate indicates a date parameter that does not parse.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a YYYY-MM-DD string into a date truncated to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseDateOrDefault parses s when non-empty and substitutes def when s is
// empty. A malformed non-empty value is an error, never silently replaced.
func ParseDateOrDefault(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return ParseDate(s)
}

// DefaultReportWindow returns the standard ledger window ending today and
// starting 30 days earlier.
func DefaultReportWindow(now time.Time) (start, end time.Time) {
	end = DateOf(now)
	start = end.AddDate(0, 0, -30)
	return start, end
}

// DefaultListWindow returns the standard movement listing window, the last
// seven days inclusive.
func DefaultListWindow(now time.Time) (start, end time.Time) {
	end = DateOf(now)
	start = end.AddDate(0, 0, -7)
	return start, end
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
