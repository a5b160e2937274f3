package catalog

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"autoshop/pkg/logging"
)

// Getter loads a single catalog service.
type Getter interface {
	Get(ctx context.Context, id string) (*Service, error)
}

// Handler serves the read-only service catalog.
type Handler struct {
	services Lister
	getter   Getter
	logger   *logging.Logger
}

// NewHandler creates a catalog handler. The getter may be nil, in which
// case single-service lookups scan the listed catalog instead.
func NewHandler(services Lister, getter Getter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{services: services, getter: getter, logger: logger}
}

// ListResponse is the response for listing services.
type ListResponse struct {
	Services []Service `json:"services"`
	Count    int       `json:"count"`
}

// ListServices handles GET /api/services requests.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Services: services, Count: len(services)})
}

// GetService handles GET /api/services/{id} requests.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	svc, err := h.lookup(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get service", "error", err, "id", id)
		http.Error(w, "failed to get service", http.StatusInternalServerError)
		return
	}
	if svc == nil {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(svc)
}

func (h *Handler) lookup(ctx context.Context, id string) (*Service, error) {
	if h.getter != nil {
		return h.getter.Get(ctx, id)
	}
	services, err := h.services.List(ctx)
	if err != nil {
		return nil, err
	}
	if svc, ok := FindByID(services, id); ok {
		return svc, nil
	}
	return nil, nil
}
