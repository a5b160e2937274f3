package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type staticLister struct {
	services []Service
	err      error
}

func (s staticLister) List(ctx context.Context) ([]Service, error) {
	return s.services, s.err
}

type staticGetter struct {
	service *Service
	err     error
}

func (s staticGetter) Get(ctx context.Context, id string) (*Service, error) {
	return s.service, s.err
}

func TestListServices(t *testing.T) {
	h := NewHandler(staticLister{services: testCatalog()}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	rr := httptest.NewRecorder()
	h.ListServices(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp ListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Services) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Services[0].ID != "s1" {
		t.Fatalf("unexpected first service: %+v", resp.Services[0])
	}
}

func TestListServicesFailure(t *testing.T) {
	h := NewHandler(staticLister{err: errors.New("db down")}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	rr := httptest.NewRecorder()
	h.ListServices(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func getService(t *testing.T, h *Handler, id string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/services/{id}", h.GetService)
	req := httptest.NewRequest(http.MethodGet, "/api/services/"+id, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGetServiceViaGetter(t *testing.T) {
	svc := &Service{ID: "s1", Name: "Oil change", DurationMinutes: 30, Price: 1200}
	h := NewHandler(staticLister{}, staticGetter{service: svc}, nil)

	rr := getService(t, h, "s1")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got Service
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != "s1" || got.Price != 1200 {
		t.Fatalf("unexpected service: %+v", got)
	}
}

func TestGetServiceNotFound(t *testing.T) {
	h := NewHandler(staticLister{}, staticGetter{}, nil)

	rr := getService(t, h, "ghost")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetServiceFallsBackToList(t *testing.T) {
	h := NewHandler(staticLister{services: testCatalog()}, nil, nil)

	rr := getService(t, h, "s2")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got Service
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != "s2" {
		t.Fatalf("unexpected service: %+v", got)
	}
}
