package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ohip/ohip/pkg/scoring"
	"github.com/ohip/ohip/pkg/surface"
)

// ScorecardTool handles the ohip_scorecard MCP tool.
type ScorecardTool struct {
	engine *scoring.Engine
	load   LoadFunc
}

// NewScorecardTool creates a ScorecardTool. load may be nil, in which case
// only explicit metrics can be scored.
func NewScorecardTool(engine *scoring.Engine, load LoadFunc) *ScorecardTool {
	return &ScorecardTool{engine: engine, load: load}
}

// Definition returns the MCP tool definition for ohip_scorecard.
func (t *ScorecardTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Score a country's occupational health system: four pillar scores (0-100) and a maturity score (1.0-4.0). " +
				"Give iso_code to score a country, or omit it and pass metric values to score a hypothetical one.",
		),
		mcp.WithString("iso_code",
			mcp.Description("ISO 3166-1 alpha-3 code, e.g. DEU"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: markdown (default) or json"),
		),
	}
	return mcp.NewTool("ohip_scorecard", withMetricArgs(opts)...)
}

// Handle processes the ohip_scorecard tool call.
func (t *ScorecardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, m, err := baseline(ctx, req, t.load)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if m, err = applyMetricArgs(req, m); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	view := &surface.ScorecardView{Scorecard: t.engine.Scorecard(m)}
	if rec != nil {
		view.ISOCode = rec.ISOCode
		view.Country = rec.Name
		view.Reported = rec.MaturityScore
	}

	switch req.GetString("format", "markdown") {
	case "json":
		return jsonResult(view)
	case "markdown", "":
		return mcp.NewToolResultText(surface.BuildScorecardMarkdown(view)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: want markdown or json", req.GetString("format", ""))), nil
	}
}
