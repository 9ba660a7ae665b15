package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpserver "marzi/internal/adapters/http_server"
	"marzi/internal/app"
	"marzi/internal/domain"
)

type stubStore struct {
	sheets map[string][]map[string]any
}

func (s *stubStore) FetchSheet(ctx context.Context, sheet string) ([]map[string]any, error) {
	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("GET stub/%s: %w", sheet, domain.ErrNotFound)
	}
	return rows, nil
}

func (s *stubStore) AppendRow(ctx context.Context, sheet string, row map[string]any) error {
	return nil
}

func newTestServer(store *stubStore) *httptest.Server {
	catalog := app.NewCatalogService(store, nil, 0, "")
	leads := app.NewLeadService(store)
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Catalog: catalog, Leads: leads})
	return httptest.NewServer(srv.Mux())
}

func catalogStore() *stubStore {
	return &stubStore{sheets: map[string][]map[string]any{
		"": {
			{"id": "p1", "destination": "goa", "title": "Goa Getaway", "days": "2", "price": "40000", "rating": "3"},
			{"id": "p2", "destination": "kerala", "title": "Kerala Calm", "days": "5", "price": "60000", "rating": "5"},
			{"id": "p3", "destination": "ladakh", "title": "Ladakh Grand", "days": "10", "price": "200000", "rating": "4"},
		},
		app.SheetItinerary:    {},
		app.SheetInclusions:   {},
		app.SheetExclusions:   {},
		app.SheetPolicies:     {},
		app.SheetDestinations: {{"slug": "goa", "name": "Goa", "subtitle": "Sun"}},
	}}
}

func TestListPackages_FilterQueryParams(t *testing.T) {
	ts := newTestServer(catalogStore())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/packages?budget=mid&duration=all&sort=rating-desc")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var body struct {
		Items []domain.Package `json:"items"`
		Count int              `json:"count"`
		Total int              `json:"total"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Total != 3 || len(body.Items) != 1 || body.Items[0].ID != "p2" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestListPackages_RejectsUnknownTier(t *testing.T) {
	ts := newTestServer(catalogStore())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/packages?budget=cheap")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tier, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem response, got %q", ct)
	}
}

func TestGetPackage_NotFound(t *testing.T) {
	ts := newTestServer(catalogStore())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/packages/ghost")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestGetDestination_OK(t *testing.T) {
	ts := newTestServer(catalogStore())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/destinations/goa")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var page domain.DestinationPage
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Destination.Slug != "goa" || len(page.Packages) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestSubmitLead_ValidationAt400(t *testing.T) {
	ts := newTestServer(catalogStore())
	defer ts.Close()

	res, err := http.Post(ts.URL+"/v1/leads", "application/json",
		strings.NewReader(`{"name":"","email":"a@b.com","phone":"123"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	var out domain.LeadResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Success || out.Error == "" {
		t.Fatalf("expected failure with message, got %+v", out)
	}
}

func TestSubmitLead_OK(t *testing.T) {
	ts := newTestServer(catalogStore())
	defer ts.Close()

	res, err := http.Post(ts.URL+"/v1/leads", "application/json",
		strings.NewReader(`{"packageId":"p2","name":"Asha","email":"asha@example.com","phone":"123","message":"hi"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var out domain.LeadResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success, got %+v", out)
	}
}
