package appointments

import "time"

// Appointment statuses. New bookings always start as pending.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var validStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusConfirmed:  {},
	StatusInProgress: {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// IsValidStatus reports whether s is a known appointment status.
func IsValidStatus(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

// Appointment is a scheduled shop visit.
type Appointment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	VehicleID  string    `json:"vehicle_id"`
	Date       string    `json:"date"` // YYYY-MM-DD
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Joined display fields for dashboard listings.
	VehicleMake  string `json:"vehicle_make,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehicleYear  int    `json:"vehicle_year,omitempty"`
}

// NewAppointment carries the fields of an appointment insert.
type NewAppointment struct {
	UserID     string
	VehicleID  string
	Date       string // YYYY-MM-DD
	StartTime  string
	EndTime    string
	TotalPrice int64
	Status     string
}

// ServiceItem is one service-to-appointment line item with the price
// snapshotted at booking time.
type ServiceItem struct {
	ID            string `json:"id"`
	AppointmentID string `json:"appointment_id"`
	ServiceID     string `json:"service_id"`
	Price         int64  `json:"price"`
}
