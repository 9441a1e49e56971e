package sales

import "time"

// Sale records one piece of work performed for a customer, with the price
// charged and the commission earned by the staff member.
type Sale struct {
	ID               int64     `json:"id"`
	CustomerID       *int64    `json:"customer_id,omitempty"`
	PersonnelID      int64     `json:"personnel_id"`
	WorkID           int64     `json:"work_id"`
	Price            int64     `json:"price"`
	CommissionAmount int64     `json:"commission_amount"`
	OccurredOn       time.Time `json:"occurred_on"`
	CreatedAt        time.Time `json:"created_at"`

	CustomerName  string `json:"customer_name,omitempty"`
	PersonnelName string `json:"personnel_name,omitempty"`
	WorkName      string `json:"work_name,omitempty"`
}

// DailySummary aggregates one day's sales. The display fields carry the
// totals with thousands separators for dashboards and SMS bodies.
type DailySummary struct {
	Date                   time.Time `json:"date"`
	SaleCount              int       `json:"sale_count"`
	PriceTotal             int64     `json:"price_total"`
	CommissionTotal        int64     `json:"commission_total"`
	PriceTotalDisplay      string    `json:"price_total_display"`
	CommissionTotalDisplay string    `json:"commission_total_display"`
	Sales                  []Sale    `json:"sales"`
}
