package ledger

import (
	"testing"

	_ "github.com/glowdesk/glowdesk/testing"
)

func TestWalkEmptyWindowZeroOpening(t *testing.T) {
	rows, totals := Walk(0, day(1), nil)
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	if totals.ClosingBalance != 0 || totals.TotalAmount != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestWalkSingleReceipt(t *testing.T) {
	entries := Merge(nil, []ReceiptMovement{{ID: 1, OccurredOn: day(5), Amount: 500}})
	rows, totals := Walk(0, day(1), entries)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Kind != RowMovement || rows[0].Balance != 500 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if rows[0].Effect == nil || *rows[0].Effect != 500 {
		t.Fatalf("expected effect 500, got %v", rows[0].Effect)
	}
	if totals.ClosingBalance != 500 || totals.ReceiptCount != 1 || totals.PayCount != 0 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestWalkNonzeroOpeningEmitsLeadingRow(t *testing.T) {
	entries := Merge(nil, []ReceiptMovement{{ID: 1, OccurredOn: day(10), Amount: 200}})
	rows, totals := Walk(1000, day(1), entries)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	opening := rows[0]
	if opening.Kind != RowOpening || opening.Label != OpeningLabel {
		t.Fatalf("expected opening row first, got %+v", opening)
	}
	if opening.Balance != 1000 || opening.Effect != nil || opening.Entry != nil {
		t.Fatalf("opening row malformed: %+v", opening)
	}
	if !opening.Date.Equal(day(1)) {
		t.Fatalf("opening row must carry the window start, got %v", opening.Date)
	}
	if rows[1].Balance != 1200 || totals.ClosingBalance != 1200 {
		t.Fatalf("expected closing 1200, got row %d totals %d", rows[1].Balance, totals.ClosingBalance)
	}
}

func TestWalkZeroOpeningSuppressesLeadingRow(t *testing.T) {
	entries := Merge([]PayMovement{{ID: 1, OccurredOn: day(2), Amount: 50}}, nil)
	rows, _ := Walk(0, day(1), entries)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Kind != RowMovement {
		t.Fatalf("no opening row expected, got %+v", rows[0])
	}
}

// Balance conservation: closing == opening + sum of effects, whatever the mix.
func TestWalkBalanceConservation(t *testing.T) {
	pays := []PayMovement{
		{ID: 1, OccurredOn: day(2), Amount: 300},
		{ID: 3, OccurredOn: day(4), Amount: 120},
	}
	receipts := []ReceiptMovement{
		{ID: 2, OccurredOn: day(2), Amount: 900},
		{ID: 4, OccurredOn: day(6), Amount: 75},
	}
	entries := Merge(pays, receipts)

	opening := int64(250)
	rows, totals := Walk(opening, day(1), entries)

	var sum int64
	for _, e := range entries {
		sum += e.Effect
	}
	if totals.ClosingBalance != opening+sum {
		t.Fatalf("conservation violated: closing %d, opening+sum %d", totals.ClosingBalance, opening+sum)
	}
	last := rows[len(rows)-1]
	if last.Balance != totals.ClosingBalance {
		t.Fatalf("last row balance %d != closing %d", last.Balance, totals.ClosingBalance)
	}
	if totals.PayCount != 2 || totals.ReceiptCount != 2 {
		t.Fatalf("unexpected counts: %+v", totals)
	}
	if totals.TotalAmount != totals.ClosingBalance {
		t.Fatalf("total amount accumulates the same increments: %+v", totals)
	}
}
