package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"autoshop/internal/identity"
	"autoshop/pkg/logging"
)

// Store is the persistence surface the handler needs.
type Store interface {
	ListByUser(ctx context.Context, userID string) ([]Appointment, error)
	GetForUser(ctx context.Context, id, userID string) (*Appointment, error)
	ListItems(ctx context.Context, appointmentID string) ([]ServiceItem, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// Handler serves appointment listings for clients and admins.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// ListResponse is the response for listing appointments.
type ListResponse struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
}

// ListMine handles GET /api/appointments for the authenticated client.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	appts, err := h.store.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "user_id", user.ID)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Appointments: appts, Count: len(appts)})
}

// DetailResponse is an appointment with its line items.
type DetailResponse struct {
	Appointment Appointment   `json:"appointment"`
	Items       []ServiceItem `json:"items"`
}

// GetMine handles GET /api/appointments/{id} for the owning client.
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	appt, err := h.store.GetForUser(r.Context(), id, user.ID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load appointment", "error", err, "id", id)
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}

	items, err := h.store.ListItems(r.Context(), appt.ID)
	if err != nil {
		h.logger.Error("failed to load appointment items", "error", err, "id", id)
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DetailResponse{Appointment: *appt, Items: items})
}

// AdminList handles GET /api/admin/appointments requests.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
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

	status := r.URL.Query().Get("status")
	if status != "" && !IsValidStatus(status) {
		http.Error(w, "unknown status filter", http.StatusBadRequest)
		return
	}

	appts, err := h.store.ListAll(r.Context(), status, limit, offset)
	if err != nil {
		h.logger.Error("failed to list all appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Appointments: appts, Count: len(appts)})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// AdminUpdateStatus handles PATCH /api/admin/appointments/{id}/status.
func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !IsValidStatus(req.Status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	err := h.store.UpdateStatus(r.Context(), id, req.Status)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update appointment status", "error", err, "id", id)
		http.Error(w, "failed to update status", http.StatusInternalServerError)
		return
	}

	h.logger.Info("appointment status updated", "id", id, "status", req.Status)
	w.WriteHeader(http.StatusNoContent)
}
