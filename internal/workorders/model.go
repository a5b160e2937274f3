package workorders

import "time"

// Work order statuses, in rough lifecycle order. A work order is opened
// when an appointment is taken into the shop.
const (
	StatusCreated    = "created"
	StatusInProgress = "in_progress"
	StatusWaiting    = "waiting_parts"
	StatusCompleted  = "completed"
)

var validStatuses = map[string]struct{}{
	StatusCreated:    {},
	StatusInProgress: {},
	StatusWaiting:    {},
	StatusCompleted:  {},
}

// IsValidStatus reports whether s is a known work order status.
func IsValidStatus(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

// WorkOrder tracks the shop-floor progress of an appointment. StartedAt
// and CompletedAt are stamped by the first move into the corresponding
// status; TotalCost is copied from the appointment total when the order
// is opened.
type WorkOrder struct {
	ID            string     `json:"id"`
	OrderNumber   string     `json:"order_number"`
	AppointmentID string     `json:"appointment_id"`
	MechanicID    string     `json:"mechanic_id,omitempty"`
	Status        string     `json:"status"`
	TotalCost     int64      `json:"total_cost"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// StatusUpdate is one progress note posted by a mechanic. Updates are
// append-only; the history is never edited.
type StatusUpdate struct {
	ID          string    `json:"id"`
	WorkOrderID string    `json:"work_order_id"`
	Status      string    `json:"status"`
	Comment     string    `json:"comment,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
