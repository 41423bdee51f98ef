// Package api implements the ohip REST API: country records, scorecards,
// rankings, scenario projection and stored reports.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ohip/ohip/internal/ingestion"
	"github.com/ohip/ohip/internal/narrative"
)

// Handler is the top-level API handler.
type Handler struct {
	svc       *ingestion.Service
	narrative *narrative.Service // nil when no model is configured
	apiKey    string
	log       zerolog.Logger
}

// NewHandler creates a new API handler. narrativeSvc may be nil. An empty
// apiKey leaves write endpoints open.
func NewHandler(svc *ingestion.Service, narrativeSvc *narrative.Service, apiKey string, log zerolog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		narrative: narrativeSvc,
		apiKey:    apiKey,
		log:       log,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	auth := APIKeyAuth(h.apiKey)

	// Write endpoints (auth-protected)
	mux.Handle("PUT /api/v1/countries", auth(http.HandlerFunc(h.handleIngest)))
	mux.Handle("POST /api/v1/sync", auth(http.HandlerFunc(h.handleSync)))
	mux.Handle("DELETE /api/countries/{iso}", auth(http.HandlerFunc(h.handleDeleteCountry)))
	mux.Handle("POST /api/countries/{iso}/reports", auth(http.HandlerFunc(h.handleCreateReport)))

	// Read endpoints
	mux.HandleFunc("GET /api/countries", h.handleListCountries)
	mux.HandleFunc("GET /api/countries/{iso}", h.handleGetCountry)
	mux.HandleFunc("GET /api/countries/{iso}/scorecard", h.handleScorecard)
	mux.HandleFunc("GET /api/rankings", h.handleRankings)
	mux.HandleFunc("GET /api/simulation/defaults", h.handleDefaults)
	mux.HandleFunc("POST /api/simulation/project", h.handleProject)

	// Reports
	mux.HandleFunc("GET /api/countries/{iso}/reports", h.handleListReports)
	mux.HandleFunc("GET /api/reports/{reportID}", h.handleGetReport)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service error to a status code.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, what string) {
	switch {
	case ingestion.IsNotFound(err):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Str("what", what).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "failed to load "+what+": "+err.Error())
	}
}

var errBadRequest = errors.New("bad request")

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}
