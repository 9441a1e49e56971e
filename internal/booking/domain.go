package booking

import "time"

// Appointment books a staff member for one piece of work on a customer over
// a time window.
type Appointment struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	PersonnelID int64     `json:"personnel_id"`
	WorkID      int64     `json:"work_id"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"created_at"`

	CustomerName  string `json:"customer_name,omitempty"`
	PersonnelName string `json:"personnel_name,omitempty"`
	WorkName      string `json:"work_name,omitempty"`
}

// Overlaps reports whether two half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back appointments do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
