package api

import (
	"net/http"
	"strings"

	"github.com/ohip/ohip/internal/catalog"
	"github.com/ohip/ohip/pkg/country"
	"github.com/ohip/ohip/pkg/scoring"
	"github.com/ohip/ohip/pkg/simulation"
	"github.com/ohip/ohip/pkg/surface"
)

type countryResponse struct {
	Record   *country.Record    `json:"record"`
	Metrics  simulation.Metrics `json:"metrics"`
	Revision string             `json:"revision,omitempty"`
}

func isoParam(r *http.Request) string {
	return strings.ToUpper(r.PathValue("iso"))
}

func (h *Handler) handleListCountries(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListCountries(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "countries")
		return
	}
	if rows == nil {
		rows = []catalog.Country{}
	}

	if region := r.URL.Query().Get("region"); region != "" {
		filtered := rows[:0]
		for _, c := range rows {
			if strings.EqualFold(c.Region, region) {
				filtered = append(filtered, c)
			}
		}
		rows = filtered
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) handleGetCountry(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.LoadCountry(r.Context(), isoParam(r))
	if err != nil {
		h.writeServiceError(w, err, "country")
		return
	}
	writeJSON(w, http.StatusOK, countryResponse{Record: rec, Metrics: simulation.Extract(rec)})
}

func (h *Handler) handleScorecard(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.LoadCountry(r.Context(), isoParam(r))
	if err != nil {
		h.writeServiceError(w, err, "country")
		return
	}
	writeJSON(w, http.StatusOK, surface.ScorecardView{
		ISOCode:   rec.ISOCode,
		Country:   rec.Name,
		Reported:  rec.MaturityScore,
		Scorecard: h.svc.Engine().Scorecard(simulation.Extract(rec)),
	})
}

func (h *Handler) handleRankings(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.LoadAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "rankings")
		return
	}
	ranked := h.svc.Engine().Rank(recs)
	if ranked == nil {
		ranked = []scoring.CountryScore{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	var rec country.Record
	if err := decodeBody(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := h.svc.IngestCountry(r.Context(), &rec)
	if err != nil {
		h.writeServiceError(w, err, "country")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	if iso := r.URL.Query().Get("iso"); iso != "" {
		row, err := h.svc.SyncCountry(r.Context(), strings.ToUpper(iso))
		if err != nil {
			h.writeServiceError(w, err, "country")
			return
		}
		writeJSON(w, http.StatusOK, row)
		return
	}

	res, err := h.svc.SyncFromProvider(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "provider data")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleDeleteCountry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCountry(r.Context(), isoParam(r)); err != nil {
		h.writeServiceError(w, err, "country")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
