// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"marzi/internal/app"
	"marzi/internal/domain"
)

type Handlers struct {
	Catalog *app.CatalogService
	Leads   *app.LeadService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/packages", h.listPackages)
	s.mux.Get("/v1/packages/{id}", h.getPackage)
	s.mux.Get("/v1/destinations", h.listDestinations)
	s.mux.Get("/v1/destinations/{slug}", h.getDestination)
	s.mux.Post("/v1/leads", h.submitLead)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON body failed")
	}
}

// readFailed maps upstream read errors onto the edge. The caller-facing
// detail never carries upstream internals; the full error is logged.
func readFailed(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("catalog read failed")
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "the requested resource does not exist")
	case errors.Is(err, domain.ErrRateLimited):
		writeProblem(w, http.StatusTooManyRequests, "Rate Limited", "the catalog store is throttling, retry shortly")
	default:
		// auth and upstream failures are server config problems, not the caller's
		writeProblem(w, http.StatusBadGateway, "Upstream Unavailable", "the catalog store did not respond")
	}
}

type packagesResponse struct {
	Items []domain.Package `json:"items"`
	Count int              `json:"count"`
	Total int              `json:"total"`
}

func (h *Handlers) listPackages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria, ok := app.ParseCriteria(q.Get("budget"), q.Get("duration"), q.Get("sort"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter",
			"budget must be one of all|budget|mid|luxury, duration one of all|short|medium|long, sort one of none|price-asc|price-desc|duration-asc|rating-desc")
		return
	}

	pkgs, err := h.Catalog.Packages(r.Context())
	if err != nil {
		readFailed(w, err)
		return
	}
	items := app.FilterAndSort(pkgs, criteria)
	writeJSON(w, http.StatusOK, packagesResponse{Items: items, Count: len(items), Total: len(pkgs)})
}

func (h *Handlers) getPackage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "package id is required")
		return
	}
	detail, err := h.Catalog.PackageDetail(r.Context(), id)
	if err != nil {
		readFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) listDestinations(w http.ResponseWriter, r *http.Request) {
	dests, err := h.Catalog.Destinations(r.Context())
	if err != nil {
		readFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": dests, "count": len(dests)})
}

func (h *Handlers) getDestination(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page, err := h.Catalog.DestinationPage(r.Context(), slug)
	if err != nil {
		readFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) submitLead(w http.ResponseWriter, r *http.Request) {
	var form domain.LeadForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be a JSON enquiry form")
		return
	}

	// reject bad forms here so the status is 400; Submit re-checks anyway
	if msg := h.Leads.Validate(form); msg != "" {
		writeJSON(w, http.StatusBadRequest, domain.LeadResult{Error: msg})
		return
	}

	res := h.Leads.Submit(r.Context(), form)
	if !res.Success {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
