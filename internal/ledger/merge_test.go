package ledger

import (
	"testing"
	"time"

	_ "github.com/glowdesk/glowdesk/testing"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestMergeOrdersByDateThenID(t *testing.T) {
	pays := []PayMovement{
		{ID: 7, OccurredOn: day(3), Amount: 100},
		{ID: 2, OccurredOn: day(1), Amount: 50},
	}
	receipts := []ReceiptMovement{
		{ID: 5, OccurredOn: day(2), Amount: 200},
		{ID: 1, OccurredOn: day(3), Amount: 300},
	}

	entries := Merge(pays, receipts)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.OccurredOn.Before(prev.OccurredOn) {
			t.Fatalf("entry %d out of date order: %v before %v", i, cur.OccurredOn, prev.OccurredOn)
		}
		if cur.OccurredOn.Equal(prev.OccurredOn) && cur.ID < prev.ID {
			t.Fatalf("entry %d breaks id tie-break: %d after %d", i, cur.ID, prev.ID)
		}
	}

	// Receipt id=1 on day 3 must come before pay id=7 on day 3.
	if entries[2].ID != 1 || entries[2].Kind != KindReceipt {
		t.Fatalf("expected receipt 1 at position 2, got %v %d", entries[2].Kind, entries[2].ID)
	}
}

func TestMergeSignsEffects(t *testing.T) {
	entries := Merge(
		[]PayMovement{{ID: 1, OccurredOn: day(1), Amount: 100}},
		[]ReceiptMovement{{ID: 2, OccurredOn: day(2), Amount: 100}},
	)
	if entries[0].Effect != -100 {
		t.Fatalf("pay effect: expected -100, got %d", entries[0].Effect)
	}
	if entries[1].Effect != 100 {
		t.Fatalf("receipt effect: expected +100, got %d", entries[1].Effect)
	}
	// Stored magnitudes stay non-negative.
	if entries[0].Amount != 100 || entries[1].Amount != 100 {
		t.Fatalf("amounts must stay unsigned: %d, %d", entries[0].Amount, entries[1].Amount)
	}
}

func TestMergeEmptyStreams(t *testing.T) {
	if entries := Merge(nil, nil); len(entries) != 0 {
		t.Fatalf("expected empty sequence, got %d entries", len(entries))
	}
}
