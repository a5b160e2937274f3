package vehicles

import (
	"context"
	"encoding/json"
	"net/http"

	"autoshop/internal/identity"
	"autoshop/pkg/logging"
)

// Store is the persistence surface the handler needs.
type Store interface {
	ListByUser(ctx context.Context, userID string) ([]Vehicle, error)
}

// Handler serves the client's vehicle garage.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a vehicles handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// ListResponse is the response for listing vehicles.
type ListResponse struct {
	Vehicles []Vehicle `json:"vehicles"`
	Count    int       `json:"count"`
}

// ListMine handles GET /api/vehicles for the authenticated client.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	out, err := h.store.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list vehicles", "error", err, "user_id", user.ID)
		http.Error(w, "failed to list vehicles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Vehicles: out, Count: len(out)})
}
