package surface

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownRenderer renders views as GitHub-flavored Markdown, suitable for
// stored reports.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) RenderScorecard(w io.Writer, v *ScorecardView) error {
	_, err := io.WriteString(w, BuildScorecardMarkdown(v))
	return err
}

func (r *MarkdownRenderer) RenderProjection(w io.Writer, v *ProjectionView) error {
	_, err := io.WriteString(w, BuildProjectionMarkdown(v))
	return err
}

// BuildScorecardMarkdown renders a scorecard view to a Markdown string.
func BuildScorecardMarkdown(v *ScorecardView) string {
	var sb strings.Builder
	sc := v.Scorecard
	if sc == nil {
		return ""
	}

	sb.WriteString(fmt.Sprintf("## %s: Maturity %.2f / 4.0\n\n", title(v.ISOCode, v.Country), sc.Maturity))
	sb.WriteString(fmt.Sprintf("_%.1f on the 0-100 scale", sc.MaturityPercent))
	if v.Reported != nil {
		sb.WriteString(fmt.Sprintf("; reported maturity score %.1f", *v.Reported))
	}
	sb.WriteString("_\n\n")

	sb.WriteString("| Pillar | Score | Band |\n|--------|-------|------|\n")
	for _, p := range sc.Breakdown {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", p.Name, p.Score, p.Band))
	}
	sb.WriteString("\n")

	sb.WriteString("### Inputs\n\n")
	for _, p := range sc.Breakdown {
		for _, c := range p.Components {
			sb.WriteString(fmt.Sprintf("- **%s** %g (normalized %.1f, weight %.2f)\n", c.Metric, c.Input, c.Normalized, c.Weight))
		}
	}
	sb.WriteString("\n")

	writeMarkdownNarrative(&sb, v.Narrative)
	return sb.String()
}

// BuildProjectionMarkdown renders a projection view to a Markdown string.
func BuildProjectionMarkdown(v *ProjectionView) string {
	var sb strings.Builder
	p := v.Projection

	sb.WriteString(fmt.Sprintf("## %s: %s\n\n", title(v.ISOCode, v.Country), outcomeLabel(string(p.Outcome))))
	sb.WriteString(fmt.Sprintf("Maturity **%.2f → %.2f** (%s)\n\n", p.BaselineMaturity, p.ProjectedMaturity, signedFloat(p.Delta)))

	sb.WriteString("| Pillar | Baseline | Projected | Δ |\n|--------|----------|-----------|---|\n")
	for _, row := range pillarRows(p) {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s |\n", row.name, row.baseline, row.project, signedInt(row.delta)))
	}
	sb.WriteString("\n")

	if len(p.ChangedFields) > 0 {
		sb.WriteString("### Changed inputs\n\n")
		for _, f := range p.ChangedFields {
			sb.WriteString(fmt.Sprintf("- `%s`\n", f))
		}
		sb.WriteString("\n")
	}

	writeMarkdownNarrative(&sb, v.Narrative)
	return sb.String()
}

func outcomeLabel(o string) string {
	if o == "" {
		return ""
	}
	return strings.ToUpper(o[:1]) + o[1:]
}

func writeMarkdownNarrative(sb *strings.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	sb.WriteString("### Analysis\n\n")
	sb.WriteString(strings.TrimSpace(text))
	sb.WriteString("\n")
}
