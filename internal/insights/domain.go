package insights

import "time"

// SeriesPoint is one day of a dashboard series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value int64     `json:"value"`
}

// PaySeries is the daily outflow of one (payment method, bank) bucket over
// the dashboard window.
type PaySeries struct {
	Label           string        `json:"label"`
	PaymentMethodID int64         `json:"payment_method_id"`
	BankID          *int64        `json:"bank_id,omitempty"`
	Points          []SeriesPoint `json:"points"`
}

// DailySales aggregates one day of sales activity.
type DailySales struct {
	Date            time.Time `json:"date"`
	PriceTotal      int64     `json:"price_total"`
	CommissionTotal int64     `json:"commission_total"`
	Count           int64     `json:"count"`
}

// PayBucketDay is one stored aggregation row: the pay total of a single
// (method, bank) bucket on a single day. Days without movements produce no
// row; the service zero-fills them.
type PayBucketDay struct {
	PaymentMethodID int64
	MethodName      string
	BankID          *int64
	BankName        string
	Date            time.Time
	Total           int64
}

// Dashboard is the home screen payload. Every series covers each day of the
// window so charts never have to guess at gaps.
type Dashboard struct {
	From         time.Time     `json:"from"`
	To           time.Time     `json:"to"`
	GeneratedAt  time.Time     `json:"generated_at"`
	PaySeries    []PaySeries   `json:"pay_series"`
	Sales        []DailySales  `json:"sales"`
	Appointments []SeriesPoint `json:"appointments"`
}
