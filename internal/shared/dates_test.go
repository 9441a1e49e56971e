package shared

import (
	"errors"
	"testing"
	"time"

	_ "github.com/glowdesk/glowdesk/testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 5 {
		t.Fatalf("unexpected date: %v", d)
	}
}

func TestParseDateRejectsMalformedInput(t *testing.T) {
	for _, s := range []string{"2024/01/05", "05-01-2024", "not-a-date", "2024-13-01"} {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate for %q, got %v", s, err)
		}
	}
}

func TestParseDateOrDefault(t *testing.T) {
	def := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	d, err := ParseDateOrDefault("", def)
	if err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if !d.Equal(def) {
		t.Fatalf("expected default, got %v", d)
	}

	// A malformed value must surface as an error, not fall back silently.
	if _, err := ParseDateOrDefault("garbage", def); err == nil {
		t.Fatal("expected error for malformed input")
	}
}

func TestDefaultReportWindow(t *testing.T) {
	now := time.Date(2024, 3, 31, 15, 30, 0, 0, time.UTC)
	start, end := DefaultReportWindow(now)
	if !end.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end: %v", end)
	}
	if !start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", start)
	}
}
