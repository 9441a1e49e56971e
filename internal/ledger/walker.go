package ledger

import "time"

// OpeningLabel names the synthetic leading row.
const OpeningLabel = "opening balance"

// WalkTotals summarises a running-balance walk.
type WalkTotals struct {
	ClosingBalance int64
	TotalAmount    int64
	ReceiptCount   int
	PayCount       int
}

// Walk folds the merged sequence into running balances. The fold is strictly
// sequential: every balance depends on all prior balances. When the opening
// balance is nonzero a synthetic opening row leads the result; when it is
// zero and no movements fall in the window, the row list is empty.
func Walk(opening int64, windowStart time.Time, entries []Entry) ([]Row, WalkTotals) {
	totals := WalkTotals{
		ClosingBalance: opening,
		TotalAmount:    opening,
	}

	var rows []Row
	if opening != 0 {
		rows = append(rows, Row{
			Kind:    RowOpening,
			Date:    windowStart,
			Label:   OpeningLabel,
			Balance: opening,
		})
	}

	for i := range entries {
		entry := entries[i]
		totals.ClosingBalance += entry.Effect
		totals.TotalAmount += entry.Effect
		if entry.Kind == KindReceipt {
			totals.ReceiptCount++
		} else {
			totals.PayCount++
		}
		effect := entry.Effect
		rows = append(rows, Row{
			Kind:    RowMovement,
			Date:    entry.OccurredOn,
			Label:   entry.Category,
			Effect:  &effect,
			Balance: totals.ClosingBalance,
			Entry:   &entry,
		})
	}
	return rows, totals
}
