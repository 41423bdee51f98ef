package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ohip/ohip/pkg/country"
	"github.com/ohip/ohip/pkg/scoring"
	"github.com/ohip/ohip/pkg/simulation"
	"github.com/ohip/ohip/pkg/surface"
)

type defaultsResponse struct {
	Metrics simulation.Metrics                    `json:"metrics"`
	Ranges  map[simulation.Field]simulation.Range `json:"ranges"`
	Pillars scoring.PillarScores                  `json:"pillars"`
	Weights scoring.Weights                       `json:"weights"`
}

// projectRequest describes a scenario. The baseline is the country's
// extracted snapshot when iso_code is set, else the explicit baseline, else
// the defaults. The working snapshot is the explicit working snapshot, or
// the baseline with changes applied.
type projectRequest struct {
	ISOCode  string              `json:"iso_code,omitempty"`
	Baseline *simulation.Metrics `json:"baseline,omitempty"`
	Working  *simulation.Metrics `json:"working,omitempty"`
	Changes  map[string]any      `json:"changes,omitempty"`
}

func (h *Handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	m := simulation.DefaultMetrics()
	writeJSON(w, http.StatusOK, defaultsResponse{
		Metrics: m,
		Ranges:  simulation.Ranges(),
		Pillars: h.svc.Engine().Score(m),
		Weights: scoring.DefaultWeights(),
	})
}

func (h *Handler) handleProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	view, err := h.buildProjection(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err, "country")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) buildProjection(ctx context.Context, req projectRequest) (*surface.ProjectionView, error) {
	var rec *country.Record
	if req.ISOCode != "" {
		var err error
		rec, err = h.svc.LoadCountry(ctx, strings.ToUpper(req.ISOCode))
		if err != nil {
			return nil, err
		}
	}

	scenario := simulation.NewScenario(rec)
	baseline := scenario.Baseline()
	if rec == nil && req.Baseline != nil {
		if err := req.Baseline.Validate(); err != nil {
			return nil, fmt.Errorf("%w: baseline: %v", errBadRequest, err)
		}
		baseline = *req.Baseline
	}

	working := baseline
	if req.Working != nil {
		if err := req.Working.Validate(); err != nil {
			return nil, fmt.Errorf("%w: working: %v", errBadRequest, err)
		}
		working = *req.Working
	}
	working, err := applyChanges(working, req.Changes)
	if err != nil {
		return nil, err
	}

	view := &surface.ProjectionView{
		Projection: h.svc.Engine().Project(baseline, working),
	}
	if rec != nil {
		view.ISOCode = rec.ISOCode
		view.Country = rec.Name
	}
	return view, nil
}

// applyChanges sets each named field, clamping numbers to their ranges the
// way a slider would.
func applyChanges(m simulation.Metrics, changes map[string]any) (simulation.Metrics, error) {
	for name, raw := range changes {
		if strings.EqualFold(name, simulation.FieldILOC187Ratified) {
			v, ok := raw.(bool)
			if !ok {
				return m, fmt.Errorf("%w: %s must be a boolean", errBadRequest, name)
			}
			m.ILOC187Ratified = v
			continue
		}

		f, err := simulation.ParseField(name)
		if err != nil {
			return m, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		v, ok := raw.(float64)
		if !ok {
			return m, fmt.Errorf("%w: %s must be a number", errBadRequest, name)
		}
		if m, err = m.With(f, v); err != nil {
			return m, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	return m, nil
}
