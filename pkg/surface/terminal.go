package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ohip/ohip/pkg/scoring"
)

// TerminalRenderer renders scorecards and projections as colored terminal
// output. Set NO_COLOR to disable ANSI codes.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func bandColor(b scoring.Band) string {
	if noColor() {
		return ""
	}
	switch b {
	case scoring.BandStrong:
		return colorGreen
	case scoring.BandModerate:
		return colorYellow
	case scoring.BandWeak:
		return colorRed
	default:
		return ""
	}
}

func outcomeColor(o scoring.Outcome) string {
	if noColor() {
		return ""
	}
	switch o {
	case scoring.OutcomeImprovement:
		return colorGreen
	case scoring.OutcomeRegression:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) RenderScorecard(w io.Writer, v *ScorecardView) error {
	sc := v.Scorecard
	if sc == nil {
		return fmt.Errorf("scorecard view has no scorecard")
	}

	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("%s: Maturity %.2f / 4.0 (%.1f%%)",
		title(v.ISOCode, v.Country), sc.Maturity, sc.MaturityPercent)))
	if v.Reported != nil {
		fmt.Fprintf(w, "%s\n\n", dim(fmt.Sprintf("Reported maturity score: %.1f (0-100 scale)", *v.Reported)))
	}

	for _, p := range sc.Breakdown {
		bar := scoreBar(p.Score, 20)
		fmt.Fprintf(w, "  %-18s %s %3d  %s\n",
			p.Name, colored(bar, bandColor(p.Band)), p.Score, colored(string(p.Band), bandColor(p.Band)))
		for _, c := range p.Components {
			fmt.Fprintf(w, "      %s\n", dim(fmt.Sprintf("%-22s %8.2f -> %6.2f x %.2f = %6.2f",
				c.Metric, c.Input, c.Normalized, c.Weight, c.Contribution)))
		}
	}
	fmt.Fprintln(w)

	writeNarrative(w, v.Narrative)
	return nil
}

func (r *TerminalRenderer) RenderProjection(w io.Writer, v *ProjectionView) error {
	p := v.Projection
	oc := outcomeColor(p.Outcome)

	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("%s: %s", title(v.ISOCode, v.Country),
		colored(strings.ToUpper(string(p.Outcome)), oc))))

	fmt.Fprintf(w, "Maturity: %.2f -> %.2f (%s)\n\n",
		p.BaselineMaturity, p.ProjectedMaturity, colored(signedFloat(p.Delta), oc))

	for _, row := range pillarRows(p) {
		fmt.Fprintf(w, "  %-18s %3d -> %3d  %s\n", row.name, row.baseline, row.project, signedInt(row.delta))
	}
	fmt.Fprintln(w)

	if len(p.ChangedFields) > 0 {
		fmt.Fprintf(w, "Changed inputs: %s\n\n", strings.Join(p.ChangedFields, ", "))
	}

	writeNarrative(w, v.Narrative)
	return nil
}

func writeNarrative(w io.Writer, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintln(w, "Analysis:")
	for _, para := range strings.Split(strings.TrimSpace(text), "\n") {
		for _, line := range wrapText(para, 70) {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintln(w)
}

// scoreBar draws a fixed-width bar for a 0-100 score.
func scoreBar(score, width int) string {
	filled := score * width / 100
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// wrapText wraps a string at the given width, returning lines.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	lines = append(lines, current)
	return lines
}
