package profiles

import "time"

// Profile roles. Every profile starts as a client; admins and mechanics
// are assigned out of band.
const (
	RoleAdmin    = "admin"
	RoleClient   = "client"
	RoleMechanic = "mechanic"
)

var validRoles = map[string]struct{}{
	RoleAdmin:    {},
	RoleClient:   {},
	RoleMechanic: {},
}

// IsValidRole reports whether s is a known profile role.
func IsValidRole(s string) bool {
	_, ok := validRoles[s]
	return ok
}

// Profile is the account record keyed by the auth user id.
type Profile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
