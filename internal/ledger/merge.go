package ledger

import "sort"

// Merge combines the pay and receipt streams into one sequence ordered by
// (date, id) ascending, tagging each movement with its signed effect. The
// store's return order is never trusted. Ties on (date, id) keep pays ahead
// of receipts, which the stable sort guarantees from the build order.
func Merge(pays []PayMovement, receipts []ReceiptMovement) []Entry {
	entries := make([]Entry, 0, len(pays)+len(receipts))
	for _, p := range pays {
		entries = append(entries, Entry{
			ID:              p.ID,
			Kind:            KindPay,
			OccurredOn:      p.OccurredOn,
			Amount:          p.Amount,
			Effect:          -p.Amount,
			PaymentMethodID: p.PaymentMethodID,
			PaymentMethod:   p.PaymentMethod,
			BankID:          p.BankID,
			Bank:            p.Bank,
			Category:        p.Category,
			Description:     p.Description,
		})
	}
	for _, r := range receipts {
		entries = append(entries, Entry{
			ID:              r.ID,
			Kind:            KindReceipt,
			OccurredOn:      r.OccurredOn,
			Amount:          r.Amount,
			Effect:          r.Amount,
			PaymentMethodID: r.PaymentMethodID,
			PaymentMethod:   r.PaymentMethod,
			BankID:          r.BankID,
			Bank:            r.Bank,
			Category:        r.Category,
			Description:     r.Description,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].OccurredOn.Equal(entries[j].OccurredOn) {
			return entries[i].OccurredOn.Before(entries[j].OccurredOn)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}
