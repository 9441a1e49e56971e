package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidDateRange indicates a report window whose start is after its end.
	ErrInvalidDateRange = errors.New("invalid date range: start after end")
)
