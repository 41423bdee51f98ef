package narrative

import (
	"fmt"
	"strings"

	"github.com/ohip/ohip/pkg/scoring"
)

const instructions = `You are an occupational health and safety policy analyst.
Use only the figures given below; do not invent statistics.
Maturity runs from 1.0 (nascent) to 4.0 (leading). Pillar scores run from 0 to 100.
Answer in three short paragraphs: overall position, weakest pillar and why,
and the two policy levers with the largest expected effect.`

// ScorecardPrompt builds the prompt for a scorecard assessment.
func ScorecardPrompt(subj Subject, sc *scoring.Scorecard) string {
	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Country: %s\n", subj.label())
	fmt.Fprintf(&sb, "Maturity: %.2f / 4.0\n\n", sc.Maturity)

	for _, p := range sc.Breakdown {
		fmt.Fprintf(&sb, "%s: %d (%s)\n", p.Name, p.Score, p.Band)
		for _, c := range p.Components {
			fmt.Fprintf(&sb, "  - %s = %g (normalized %.1f, weight %.2f)\n", c.Metric, c.Input, c.Normalized, c.Weight)
		}
	}
	return sb.String()
}

// ProjectionPrompt builds the prompt for a projection assessment.
func ProjectionPrompt(subj Subject, p scoring.Projection) string {
	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\nThe figures compare current policy with a proposed scenario.\n\n")
	fmt.Fprintf(&sb, "Country: %s\n", subj.label())
	fmt.Fprintf(&sb, "Maturity: %.2f -> %.2f (%+.2f, %s)\n\n", p.BaselineMaturity, p.ProjectedMaturity, p.Delta, p.Outcome)

	rows := []struct {
		name     string
		base, to int
	}{
		{"Governance", p.BaselinePillars.Governance, p.ProjectedPillars.Governance},
		{"Hazard Control", p.BaselinePillars.Hazard, p.ProjectedPillars.Hazard},
		{"Health Vigilance", p.BaselinePillars.Vigilance, p.ProjectedPillars.Vigilance},
		{"Restoration", p.BaselinePillars.Restoration, p.ProjectedPillars.Restoration},
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s: %d -> %d\n", r.name, r.base, r.to)
	}
	if len(p.ChangedFields) > 0 {
		fmt.Fprintf(&sb, "\nChanged inputs: %s\n", strings.Join(p.ChangedFields, ", "))
	}
	return sb.String()
}
