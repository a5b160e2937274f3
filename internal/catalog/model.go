package catalog

// Service is a bookable service from the shop catalog.
type Service struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           int64  `json:"price"`
}

// FindByID returns the service with the given id from a catalog snapshot.
func FindByID(services []Service, id string) (*Service, bool) {
	for i := range services {
		if services[i].ID == id {
			return &services[i], true
		}
	}
	return nil, false
}
