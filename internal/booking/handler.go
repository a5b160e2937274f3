package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"autoshop/pkg/logging"
)

// Submitter runs the booking submission. Satisfied by *Service.
type Submitter interface {
	Submit(ctx context.Context, draft *Draft) (*Result, error)
}

// Handler exposes the booking wizard over HTTP.
type Handler struct {
	submitter Submitter
	logger    *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(submitter Submitter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{submitter: submitter, logger: logger}
}

type submitRequest struct {
	Date       string      `json:"date"` // YYYY-MM-DD
	Time       string      `json:"time"`
	ServiceIDs []string    `json:"service_ids"`
	Vehicle    VehicleInfo `json:"vehicle"`
}

type errorResponse struct {
	Error string `json:"error"`
	Step  Step   `json:"step,omitempty"`
}

// newDraftResponse is the payload for starting a wizard session.
type newDraftResponse struct {
	Draft     *Draft   `json:"draft"`
	TimeSlots []string `json:"time_slots"`
}

// NewDraft handles GET /api/bookings/new. An optional `service` query
// parameter pre-selects one service.
func (h *Handler) NewDraft(w http.ResponseWriter, r *http.Request) {
	draft := NewDraftWithService(r.URL.Query().Get("service"))
	writeJSON(w, http.StatusOK, newDraftResponse{Draft: draft, TimeSlots: TimeSlots})
}

// CreateBooking handles POST /api/bookings. The request carries the full
// wizard state at once; the handler replays it through the step machine so
// the same validation rules apply as in an interactive session, then
// submits.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	draft, err := draftFromRequest(req)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	// Walk the wizard to the confirm step. A validation failure reports
	// the step it happened on.
	for {
		ready, err := draft.Advance()
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Message, Step: verr.Step})
				return
			}
			h.logger.Error("booking draft advance failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not create booking"})
			return
		}
		if ready {
			break
		}
	}

	result, err := h.submitter.Submit(r.Context(), draft)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInsufficientData):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "insufficient data"})
	case errors.Is(err, ErrAuthenticationRequired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
	case errors.Is(err, ErrSubmissionInFlight):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "submission already in progress"})
	default:
		h.logger.Error("booking submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not create booking"})
	}
}

// draftFromRequest builds a draft from a one-shot submit payload.
func draftFromRequest(req submitRequest) (*Draft, error) {
	draft := NewDraft()
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, errors.New("invalid date, expected YYYY-MM-DD")
		}
		draft.SelectDate(date)
	}
	if req.Time != "" {
		if err := draft.SelectTime(req.Time); err != nil {
			return nil, errors.New("unknown time slot")
		}
	}
	for _, id := range req.ServiceIDs {
		if !draft.HasService(id) {
			draft.ToggleService(id)
		}
	}
	draft.Vehicle = req.Vehicle
	return draft, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
