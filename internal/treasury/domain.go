package treasury

import "time"

// PaymentMethod is the slice of master data the aggregator needs.
type PaymentMethod struct {
	ID           int64
	Name         string
	RequiresBank bool
}

// Bank mirrors the banks table.
type Bank struct {
	ID   int64
	Name string
}

// BucketTotals carries all-time sums and last movement dates for one
// (method, bank) pairing or a cash bucket.
type BucketTotals struct {
	Receipts      int64
	Pays          int64
	LastReceiptOn *time.Time
	LastPayOn     *time.Time
}

// Balance is the net position of the bucket.
func (t BucketTotals) Balance() int64 {
	return t.Receipts - t.Pays
}

// LastMovementOn is the most recent movement date across both flows, nil
// when the bucket has never moved.
func (t BucketTotals) LastMovementOn() *time.Time {
	switch {
	case t.LastReceiptOn == nil:
		return t.LastPayOn
	case t.LastPayOn == nil:
		return t.LastReceiptOn
	case t.LastPayOn.After(*t.LastReceiptOn):
		return t.LastPayOn
	default:
		return t.LastReceiptOn
	}
}

// Position is one row of the treasury report.
type Position struct {
	Label           string     `json:"label"`
	Balance         int64      `json:"balance"`
	LastMovementOn  *time.Time `json:"last_movement_on,omitempty"`
	PaymentMethodID int64      `json:"payment_method_id"`
	BankID          *int64     `json:"bank_id,omitempty"`
}

// Report is the full treasury position report. Positions follow a stable
// order: methods by id, banks by id within a method.
type Report struct {
	Entries     []Position `json:"entries"`
	GeneratedAt time.Time  `json:"generated_at"`
}
