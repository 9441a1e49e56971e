package ledger

import (
	"time"

	"github.com/glowdesk/glowdesk/internal/shared"
)

// MovementKind distinguishes the two money flows.
type MovementKind string

const (
	// KindPay is an outflow.
	KindPay MovementKind = "PAY"
	// KindReceipt is an inflow.
	KindReceipt MovementKind = "RECEIPT"
)

// PayMovement is one recorded outflow. Amounts are minor units and never
// negative; the flow direction supplies the sign when movements are merged.
// Related names are eager-fetched at the query boundary so report code works
// on plain values.
type PayMovement struct {
	ID              int64      `json:"id"`
	OccurredOn      time.Time  `json:"occurred_on"`
	Amount          int64      `json:"amount"`
	PaymentMethodID int64      `json:"payment_method_id"`
	PaymentMethod   string     `json:"payment_method"`
	BankID          *int64     `json:"bank_id,omitempty"`
	Bank            string     `json:"bank,omitempty"`
	CategoryID      int64      `json:"category_id"`
	Category        string     `json:"category"`
	PersonnelID     *int64     `json:"personnel_id,omitempty"`
	Description     string     `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ReceiptMovement is one recorded inflow.
type ReceiptMovement struct {
	ID              int64     `json:"id"`
	OccurredOn      time.Time `json:"occurred_on"`
	Amount          int64     `json:"amount"`
	PaymentMethodID int64     `json:"payment_method_id"`
	PaymentMethod   string    `json:"payment_method"`
	BankID          *int64    `json:"bank_id,omitempty"`
	Bank            string    `json:"bank,omitempty"`
	CategoryID      int64     `json:"category_id"`
	Category        string    `json:"category"`
	CustomerID      *int64    `json:"customer_id,omitempty"`
	SaleID          *int64    `json:"sale_id,omitempty"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}

// Entry is a movement tagged with its signed effect, ready for merging.
type Entry struct {
	ID              int64        `json:"id"`
	Kind            MovementKind `json:"kind"`
	OccurredOn      time.Time    `json:"occurred_on"`
	Amount          int64        `json:"amount"`
	Effect          int64        `json:"effect"`
	PaymentMethodID int64        `json:"payment_method_id"`
	PaymentMethod   string       `json:"payment_method"`
	BankID          *int64       `json:"bank_id,omitempty"`
	Bank            string       `json:"bank,omitempty"`
	Category        string       `json:"category"`
	Description     string       `json:"description"`
}

// RowKind tags report rows. The opening row is a proper variant, never a
// fabricated movement.
type RowKind string

const (
	// RowOpening is the synthetic leading row carrying the opening balance.
	RowOpening RowKind = "OPENING"
	// RowMovement is a row backed by an actual movement.
	RowMovement RowKind = "MOVEMENT"
)

// Row is one line of the running-balance report.
type Row struct {
	Kind    RowKind   `json:"kind"`
	Date    time.Time `json:"date"`
	Label   string    `json:"label"`
	Effect  *int64    `json:"effect,omitempty"`
	Balance int64     `json:"balance"`
	Entry   *Entry    `json:"entry,omitempty"`
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate rejects windows whose start is after their end.
func (w Window) Validate() error {
	if w.Start.After(w.End) {
		return shared.ErrInvalidDateRange
	}
	return nil
}

// Filter narrows the movement streams for a report. Filters are advisory: an
// id that matches nothing yields an empty result, not an error.
type Filter struct {
	Window
	BankID          *int64
	PaymentMethodID *int64
}

// Report is the running-balance ledger report.
type Report struct {
	Window          Window `json:"window"`
	BankID          *int64 `json:"bank_id,omitempty"`
	PaymentMethodID *int64 `json:"payment_method_id,omitempty"`
	OpeningBalance  int64  `json:"opening_balance"`
	ClosingBalance  int64  `json:"closing_balance"`
	TotalAmount     int64  `json:"total_amount"`
	ReceiptCount    int    `json:"receipt_count"`
	PayCount        int    `json:"pay_count"`
	Rows            []Row  `json:"rows"`
}

// OpeningTotals carries the pre-window sums used for the opening balance.
type OpeningTotals struct {
	Receipts int64
	Pays     int64
}

// Balance is the net opening figure: inflows minus outflows.
func (t OpeningTotals) Balance() int64 {
	return t.Receipts - t.Pays
}
