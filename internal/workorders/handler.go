package workorders

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
	Create(ctx context.Context, appointmentID, mechanicID string) (*WorkOrder, error)
	Get(ctx context.Context, id string) (*WorkOrder, error)
	GetForClient(ctx context.Context, id, userID string) (*WorkOrder, error)
	ListByMechanic(ctx context.Context, mechanicID string) ([]WorkOrder, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]WorkOrder, error)
	Assign(ctx context.Context, id, mechanicID string) error
	AddStatusUpdate(ctx context.Context, workOrderID, status, comment, createdBy string) (*StatusUpdate, error)
	ListStatusUpdates(ctx context.Context, workOrderID string) ([]StatusUpdate, error)
}

// Handler serves work order tracking and mechanic task endpoints.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a work orders handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// TrackingResponse is a work order with its status history.
type TrackingResponse struct {
	WorkOrder WorkOrder      `json:"work_order"`
	Updates   []StatusUpdate `json:"updates"`
}

// Track handles GET /api/workorders/{id} for the owning client.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.store.GetForClient(r.Context(), id, user.ID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "work order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load work order", "error", err, "id", id)
		http.Error(w, "failed to load work order", http.StatusInternalServerError)
		return
	}

	updates, err := h.store.ListStatusUpdates(r.Context(), order.ID)
	if err != nil {
		h.logger.Error("failed to load status updates", "error", err, "id", id)
		http.Error(w, "failed to load work order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TrackingResponse{WorkOrder: *order, Updates: updates})
}

// TasksResponse is the mechanic's open work order queue.
type TasksResponse struct {
	WorkOrders []WorkOrder `json:"work_orders"`
	Count      int         `json:"count"`
}

// MechanicTasks handles GET /api/mechanic/tasks.
func (h *Handler) MechanicTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	orders, err := h.store.ListByMechanic(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list mechanic tasks", "error", err, "mechanic_id", user.ID)
		http.Error(w, "failed to list tasks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TasksResponse{WorkOrders: orders, Count: len(orders)})
}

type statusUpdateRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// PostStatus handles POST /api/workorders/{id}/status from a mechanic.
// Only the assigned mechanic may post.
func (h *Handler) PostStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !IsValidStatus(req.Status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "work order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load work order", "error", err, "id", id)
		http.Error(w, "failed to post status", http.StatusInternalServerError)
		return
	}
	if order.MechanicID != user.ID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	update, err := h.store.AddStatusUpdate(r.Context(), id, req.Status, req.Comment, user.ID)
	if err != nil {
		h.logger.Error("failed to post status update", "error", err, "id", id)
		http.Error(w, "failed to post status", http.StatusInternalServerError)
		return
	}

	h.logger.Info("work order status posted", "id", id, "status", req.Status, "mechanic_id", user.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(update)
}

// AdminList handles GET /api/admin/workorders requests.
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

	orders, err := h.store.ListAll(r.Context(), status, limit, offset)
	if err != nil {
		h.logger.Error("failed to list work orders", "error", err)
		http.Error(w, "failed to list work orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TasksResponse{WorkOrders: orders, Count: len(orders)})
}

type createRequest struct {
	AppointmentID string `json:"appointment_id"`
	MechanicID    string `json:"mechanic_id"`
}

// AdminCreate handles POST /api/admin/workorders.
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id is required", http.StatusUnprocessableEntity)
		return
	}

	order, err := h.store.Create(r.Context(), req.AppointmentID, req.MechanicID)
	if err != nil {
		h.logger.Error("failed to create work order", "error", err, "appointment_id", req.AppointmentID)
		http.Error(w, "failed to create work order", http.StatusInternalServerError)
		return
	}

	h.logger.Info("work order created", "id", order.ID, "order_number", order.OrderNumber)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

type assignRequest struct {
	MechanicID string `json:"mechanic_id"`
}

// AdminAssign handles PATCH /api/admin/workorders/{id}/assign.
func (h *Handler) AdminAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MechanicID == "" {
		http.Error(w, "mechanic_id is required", http.StatusUnprocessableEntity)
		return
	}

	id := chi.URLParam(r, "id")
	err := h.store.Assign(r.Context(), id, req.MechanicID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "work order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to assign work order", "error", err, "id", id)
		http.Error(w, "failed to assign work order", http.StatusInternalServerError)
		return
	}

	h.logger.Info("work order assigned", "id", id, "mechanic_id", req.MechanicID)
	w.WriteHeader(http.StatusNoContent)
}
