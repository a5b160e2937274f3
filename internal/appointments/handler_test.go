package appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"autoshop/internal/identity"
)

type stubStore struct {
	byUser       []Appointment
	all          []Appointment
	items        []ServiceItem
	updated      map[string]string
	getErr       error
	listErr      error
	updateErr    error
	lastStatus   string
	lastListArgs struct {
		status        string
		limit, offset int
	}
}

func (s *stubStore) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	return s.byUser, s.listErr
}

func (s *stubStore) GetForUser(ctx context.Context, id, userID string) (*Appointment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for i := range s.byUser {
		if s.byUser[i].ID == id {
			return &s.byUser[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubStore) ListItems(ctx context.Context, appointmentID string) ([]ServiceItem, error) {
	return s.items, nil
}

func (s *stubStore) ListAll(ctx context.Context, status string, limit, offset int) ([]Appointment, error) {
	s.lastListArgs.status = status
	s.lastListArgs.limit = limit
	s.lastListArgs.offset = offset
	return s.all, s.listErr
}

func (s *stubStore) UpdateStatus(ctx context.Context, id, status string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.updated == nil {
		s.updated = map[string]string{}
	}
	s.updated[id] = status
	s.lastStatus = status
	return nil
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := identity.WithUser(req.Context(), &identity.User{ID: "user-1"})
	return req.WithContext(ctx)
}

func TestListMine(t *testing.T) {
	store := &stubStore{byUser: []Appointment{{ID: "appt-1", Status: StatusPending}}}
	h := NewHandler(store, nil)

	rr := httptest.NewRecorder()
	h.ListMine(rr, authedRequest(http.MethodGet, "/api/appointments", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp ListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Appointments[0].ID != "appt-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestListMineUnauthenticated(t *testing.T) {
	h := NewHandler(&stubStore{}, nil)

	rr := httptest.NewRecorder()
	h.ListMine(rr, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGetMineNotFound(t *testing.T) {
	h := NewHandler(&stubStore{}, nil)

	r := chi.NewRouter()
	r.Get("/api/appointments/{id}", h.GetMine)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/appointments/appt-x", ""))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAdminListRejectsUnknownStatus(t *testing.T) {
	h := NewHandler(&stubStore{}, nil)

	rr := httptest.NewRecorder()
	h.AdminList(rr, httptest.NewRequest(http.MethodGet, "/api/admin/appointments?status=bogus", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAdminListPassesFilter(t *testing.T) {
	store := &stubStore{all: []Appointment{}}
	h := NewHandler(store, nil)

	rr := httptest.NewRecorder()
	h.AdminList(rr, httptest.NewRequest(http.MethodGet, "/api/admin/appointments?status=pending&limit=10&offset=5", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if store.lastListArgs.status != StatusPending || store.lastListArgs.limit != 10 || store.lastListArgs.offset != 5 {
		t.Fatalf("unexpected list args: %+v", store.lastListArgs)
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	store := &stubStore{}
	h := NewHandler(store, nil)

	r := chi.NewRouter()
	r.Patch("/api/admin/appointments/{id}/status", h.AdminUpdateStatus)

	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/admin/appointments/appt-1/status", `{"status":"confirmed"}`)
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if store.updated["appt-1"] != StatusConfirmed {
		t.Fatalf("status not updated: %+v", store.updated)
	}
}

func TestAdminUpdateStatusRejectsUnknown(t *testing.T) {
	h := NewHandler(&stubStore{}, nil)

	r := chi.NewRouter()
	r.Patch("/api/admin/appointments/{id}/status", h.AdminUpdateStatus)

	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/admin/appointments/appt-1/status", `{"status":"sideways"}`)
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
