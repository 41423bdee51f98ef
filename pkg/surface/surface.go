// Package surface defines output rendering for scorecards and projections.
// Implementations handle different output targets: terminal, Markdown, JSON.
package surface

import (
	"fmt"
	"io"

	"github.com/ohip/ohip/pkg/scoring"
)

// Renderer produces formatted output from scoring results.
type Renderer interface {
	// RenderScorecard writes one country's scorecard.
	RenderScorecard(w io.Writer, v *ScorecardView) error
	// RenderProjection writes a baseline vs. working comparison.
	RenderProjection(w io.Writer, v *ProjectionView) error
}

// ScorecardView is a scorecard plus the context needed to present it.
type ScorecardView struct {
	ISOCode   string             `json:"iso_code,omitempty"`
	Country   string             `json:"country,omitempty"`
	Reported  *float64           `json:"reported_maturity,omitempty"` // published 0-100 figure
	Scorecard *scoring.Scorecard `json:"scorecard"`
	Narrative string             `json:"narrative,omitempty"`
}

// ProjectionView is a projection plus the context needed to present it.
type ProjectionView struct {
	ISOCode    string             `json:"iso_code,omitempty"`
	Country    string             `json:"country,omitempty"`
	Projection scoring.Projection `json:"projection"`
	Narrative  string             `json:"narrative,omitempty"`
}

// ForFormat returns the renderer for an output format name.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "", "text", "terminal":
		return &TerminalRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text, json or markdown)", format)
}

func title(isoCode, country string) string {
	switch {
	case country != "" && isoCode != "":
		return fmt.Sprintf("%s (%s)", country, isoCode)
	case country != "":
		return country
	case isoCode != "":
		return isoCode
	default:
		return "Custom scenario"
	}
}

func signedInt(d int) string {
	if d > 0 {
		return fmt.Sprintf("+%d", d)
	}
	return fmt.Sprintf("%d", d)
}

func signedFloat(d float64) string {
	if d > 0 {
		return fmt.Sprintf("+%.2f", d)
	}
	return fmt.Sprintf("%.2f", d)
}

type pillarRow struct {
	name              string
	baseline, project int
	delta             int
}

func pillarRows(p scoring.Projection) []pillarRow {
	return []pillarRow{
		{"Governance", p.BaselinePillars.Governance, p.ProjectedPillars.Governance, p.PillarDeltas.Governance},
		{"Hazard Control", p.BaselinePillars.Hazard, p.ProjectedPillars.Hazard, p.PillarDeltas.Hazard},
		{"Health Vigilance", p.BaselinePillars.Vigilance, p.ProjectedPillars.Vigilance, p.PillarDeltas.Vigilance},
		{"Restoration", p.BaselinePillars.Restoration, p.ProjectedPillars.Restoration, p.PillarDeltas.Restoration},
	}
}
