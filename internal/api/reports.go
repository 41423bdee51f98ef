package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ohip/ohip/internal/catalog"
	"github.com/ohip/ohip/internal/ingestion"
	"github.com/ohip/ohip/internal/narrative"
	"github.com/ohip/ohip/pkg/simulation"
	"github.com/ohip/ohip/pkg/surface"
)

type createReportRequest struct {
	Kind      string         `json:"kind"`
	Changes   map[string]any `json:"changes,omitempty"`
	Narrative bool           `json:"narrative,omitempty"`
}

func (h *Handler) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	iso := isoParam(r)
	var req createReportRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Kind == "" {
		req.Kind = ingestion.KindScorecard
	}

	var rep *ingestion.Report
	var err error
	switch req.Kind {
	case ingestion.KindScorecard:
		rep, err = h.scorecardReport(r.Context(), iso, req.Narrative)
	case ingestion.KindProjection:
		rep, err = h.projectionReport(r.Context(), iso, req.Changes, req.Narrative)
	default:
		writeError(w, http.StatusBadRequest, "kind must be scorecard or projection")
		return
	}
	if err != nil {
		h.writeServiceError(w, err, "country")
		return
	}

	meta, err := h.svc.StoreReport(r.Context(), rep)
	if err != nil {
		h.writeServiceError(w, err, "report")
		return
	}
	writeJSON(w, http.StatusCreated, meta)
}

func (h *Handler) scorecardReport(ctx context.Context, iso string, withNarrative bool) (*ingestion.Report, error) {
	rec, err := h.svc.LoadCountry(ctx, iso)
	if err != nil {
		return nil, err
	}
	view := &surface.ScorecardView{
		ISOCode:   rec.ISOCode,
		Country:   rec.Name,
		Reported:  rec.MaturityScore,
		Scorecard: h.svc.Engine().Scorecard(simulation.Extract(rec)),
	}
	if withNarrative {
		view.Narrative = h.narrate(iso, func(n *narrative.Service) (string, error) {
			return n.ScorecardReport(ctx, narrative.Subject{ISOCode: rec.ISOCode, Name: rec.Name}, view.Scorecard)
		})
	}
	return &ingestion.Report{
		ISOCode:   rec.ISOCode,
		Kind:      ingestion.KindScorecard,
		Scorecard: view.Scorecard,
		Narrative: view.Narrative,
		Markdown:  surface.BuildScorecardMarkdown(view),
	}, nil
}

func (h *Handler) projectionReport(ctx context.Context, iso string, changes map[string]any, withNarrative bool) (*ingestion.Report, error) {
	view, err := h.buildProjection(ctx, projectRequest{ISOCode: iso, Changes: changes})
	if err != nil {
		return nil, err
	}
	if withNarrative {
		view.Narrative = h.narrate(iso, func(n *narrative.Service) (string, error) {
			return n.ProjectionReport(ctx, narrative.Subject{ISOCode: view.ISOCode, Name: view.Country}, view.Projection)
		})
	}
	p := view.Projection
	return &ingestion.Report{
		ISOCode:    view.ISOCode,
		Kind:       ingestion.KindProjection,
		Projection: &p,
		Narrative:  view.Narrative,
		Markdown:   surface.BuildProjectionMarkdown(view),
	}, nil
}

// narrate runs fn against the narrative service. A report without analysis
// is still useful, so failures are logged and yield an empty narrative.
func (h *Handler) narrate(iso string, fn func(*narrative.Service) (string, error)) string {
	if h.narrative == nil {
		h.log.Debug().Str("iso", iso).Msg("narrative requested but no model configured")
		return ""
	}
	text, err := fn(h.narrative)
	if err != nil {
		h.log.Warn().Err(err).Str("iso", iso).Msg("narrative unavailable, storing report without it")
		return ""
	}
	return text
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	reports, err := h.svc.ListReports(r.Context(), isoParam(r), limit)
	if err != nil {
		h.writeServiceError(w, err, "reports")
		return
	}
	if reports == nil {
		reports = []catalog.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("reportID")

	if r.URL.Query().Get("format") == "markdown" {
		rep, err := h.svc.LoadReport(r.Context(), id)
		if err != nil {
			h.writeServiceError(w, err, "report")
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(rep.Markdown))
		return
	}

	data, err := h.svc.LoadReportBody(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "report")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
