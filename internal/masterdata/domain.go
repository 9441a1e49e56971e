package masterdata

import "time"

// PaymentMethod is a way money enters or leaves the salon. RequiresBank
// marks methods that must carry a bank reference on every movement.
type PaymentMethod struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	RequiresBank bool      `json:"requires_bank"`
	CreatedAt    time.Time `json:"created_at"`
}

// Bank represents a bank account movements can be routed through.
type Bank struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Work is a billable service the salon offers.
type Work struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Personnel represents a staff member.
type Personnel struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Mobile    string    `json:"mobile"`
	OnSite    bool      `json:"on_site"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName joins first and last name for display labels.
func (p Personnel) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Customer represents a salon customer.
type Customer struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Mobile          string    `json:"mobile"`
	Blacklisted     bool      `json:"blacklisted"`
	BlacklistReason string    `json:"blacklist_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Commission is the percentage a staff member earns on one kind of work.
type Commission struct {
	PersonnelID int64 `json:"personnel_id"`
	WorkID      int64 `json:"work_id"`
	RatePct     int32 `json:"rate_pct"`
}

// PayCategory classifies outgoing movements. IsPersonnel marks categories
// that should reference a staff member (salary, advance).
type PayCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	IsPersonnel bool   `json:"is_personnel"`
}

// ReceiptCategory classifies incoming movements.
type ReceiptCategory struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	IsCustomer bool   `json:"is_customer"`
}
