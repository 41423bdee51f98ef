package surface_test

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohip/ohip/pkg/scoring"
	"github.com/ohip/ohip/pkg/simulation"
	"github.com/ohip/ohip/pkg/surface"
)

func sampleScorecard() *surface.ScorecardView {
	m := simulation.DefaultMetrics()
	reported := 52.0
	return &surface.ScorecardView{
		ISOCode:   "TST",
		Country:   "Testland",
		Reported:  &reported,
		Scorecard: scoring.DefaultEngine().Scorecard(m),
		Narrative: "Governance is the weakest pillar. Ratifying C187 would lift it by twenty points.",
	}
}

func sampleProjection() *surface.ProjectionView {
	base := simulation.DefaultMetrics()
	working := base
	working.ILOC187Ratified = true
	return &surface.ProjectionView{
		ISOCode:    "TST",
		Country:    "Testland",
		Projection: scoring.Project(base, working),
	}
}

func TestTerminalRenderer_Scorecard(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer
	require.NoError(t, r.RenderScorecard(&buf, sampleScorecard()))

	output := buf.String()
	assert.Contains(t, output, "Testland (TST): Maturity 2.46 / 4.0 (48.7%)")
	assert.Contains(t, output, "Reported maturity score: 52.0")
	assert.Contains(t, output, "Governance")
	assert.Contains(t, output, "Hazard Control")
	assert.Contains(t, output, "WEAK")
	assert.Contains(t, output, "MODERATE")
	assert.Contains(t, output, "fatalAccidentRate")
	assert.Contains(t, output, "Analysis:")
	assert.NotContains(t, output, "\033[")
}

func TestTerminalRenderer_ScorecardRequiresScorecard(t *testing.T) {
	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer
	assert.Error(t, r.RenderScorecard(&buf, &surface.ScorecardView{ISOCode: "TST"}))
}

func TestTerminalRenderer_Projection(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer
	require.NoError(t, r.RenderProjection(&buf, sampleProjection()))

	output := buf.String()
	assert.Contains(t, output, "IMPROVEMENT")
	assert.Contains(t, output, "Maturity: 2.46 -> 2.61 (+0.15)")
	assert.Contains(t, output, "+20")
	assert.Contains(t, output, "Changed inputs: iloC187Ratified")
	assert.NotContains(t, output, "Analysis:")
}

func TestTerminalRenderer_NoChange(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	m := simulation.DefaultMetrics()
	v := &surface.ProjectionView{Projection: scoring.Project(m, m)}

	var buf bytes.Buffer
	require.NoError(t, (&surface.TerminalRenderer{}).RenderProjection(&buf, v))
	assert.Contains(t, buf.String(), "Custom scenario: NO CHANGE")
	assert.Contains(t, buf.String(), "(0.00)")
}

func TestTerminalRenderer_ColorRespected(t *testing.T) {
	// Without NO_COLOR, output should have ANSI codes
	os.Unsetenv("NO_COLOR")

	var buf bytes.Buffer
	require.NoError(t, (&surface.TerminalRenderer{}).RenderProjection(&buf, sampleProjection()))
	assert.Contains(t, buf.String(), "\033[")
}

func TestMarkdownRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := &surface.MarkdownRenderer{}

	require.NoError(t, r.RenderScorecard(&buf, sampleScorecard()))
	md := buf.String()
	assert.Contains(t, md, "## Testland (TST): Maturity 2.46 / 4.0")
	assert.Contains(t, md, "| Governance | 28 | WEAK |")
	assert.Contains(t, md, "| Hazard Control | 68 | MODERATE |")
	assert.Contains(t, md, "reported maturity score 52.0")
	assert.Contains(t, md, "### Analysis")

	buf.Reset()
	require.NoError(t, r.RenderProjection(&buf, sampleProjection()))
	md = buf.String()
	assert.Contains(t, md, "## Testland (TST): Improvement")
	assert.Contains(t, md, "| Governance | 28 | 48 | +20 |")
	assert.Contains(t, md, "- `iloC187Ratified`")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&surface.JSONRenderer{}).RenderProjection(&buf, sampleProjection()))

	var decoded struct {
		ISOCode    string `json:"iso_code"`
		Projection struct {
			Outcome          string         `json:"outcome"`
			ProjectedPillars map[string]int `json:"projected_pillars"`
		} `json:"projection"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "TST", decoded.ISOCode)
	assert.Equal(t, "improvement", decoded.Projection.Outcome)
	assert.Equal(t, 48, decoded.Projection.ProjectedPillars["governance"])
	assert.Equal(t, 68, decoded.Projection.ProjectedPillars["pillar1"])
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   surface.Renderer
	}{
		{"", &surface.TerminalRenderer{}},
		{"text", &surface.TerminalRenderer{}},
		{"json", &surface.JSONRenderer{}},
		{"md", &surface.MarkdownRenderer{}},
		{"markdown", &surface.MarkdownRenderer{}},
	}
	for _, tc := range tests {
		got, err := surface.ForFormat(tc.format)
		require.NoError(t, err, tc.format)
		assert.IsType(t, tc.want, got, tc.format)
	}

	_, err := surface.ForFormat("xml")
	assert.Error(t, err)
}
