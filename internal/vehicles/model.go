package vehicles

import "time"

// Vehicle is a customer's car on file.
type Vehicle struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	VIN          string    `json:"vin,omitempty"`
	LicensePlate string    `json:"license_plate,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
