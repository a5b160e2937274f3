package profiles

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"autoshop/internal/identity"
	"autoshop/pkg/logging"
)

// Store is the profile persistence used by the handler.
type Store interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, userID, firstName, lastName, phone string) (*Profile, error)
	ListByRole(ctx context.Context, role string, limit, offset int) ([]Profile, error)
	SetRole(ctx context.Context, userID, role string) error
}

// Handler serves the profile endpoints.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a profile handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// GetMine handles GET /api/profile. A user without a stored profile gets
// an empty client profile rather than a 404, so the account page always
// renders.
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	profile, err := h.store.Get(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to get profile", "error", err, "user_id", user.ID)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		profile = &Profile{ID: user.ID, Role: RoleClient}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

type updateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UpdateMine handles PUT /api/profile.
func (h *Handler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		http.Error(w, "first and last name are required", http.StatusUnprocessableEntity)
		return
	}

	profile, err := h.store.Upsert(r.Context(), user.ID, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		h.logger.Error("failed to update profile", "error", err, "user_id", user.ID)
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// ListResponse is the response for listing profiles.
type ListResponse struct {
	Profiles []Profile `json:"profiles"`
	Count    int       `json:"count"`
}

// AdminListClients handles GET /api/admin/clients.
func (h *Handler) AdminListClients(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
			offset = v
		}
	}

	clients, err := h.store.ListByRole(r.Context(), RoleClient, limit, offset)
	if err != nil {
		h.logger.Error("failed to list clients", "error", err)
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Profiles: clients, Count: len(clients)})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// AdminSetRole handles PATCH /api/admin/profiles/{id}/role.
func (h *Handler) AdminSetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !IsValidRole(req.Role) {
		http.Error(w, "invalid role", http.StatusUnprocessableEntity)
		return
	}

	userID := chi.URLParam(r, "id")
	if err := h.store.SetRole(r.Context(), userID, req.Role); err != nil {
		h.logger.Error("failed to set role", "error", err, "user_id", userID)
		http.Error(w, "failed to set role", http.StatusInternalServerError)
		return
	}

	h.logger.Info("profile role updated", "user_id", userID, "role", req.Role)
	w.WriteHeader(http.StatusNoContent)
}
