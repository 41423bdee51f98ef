package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ohip/ohip/pkg/scoring"
	"github.com/ohip/ohip/pkg/simulation"
)

// DefaultsTool handles the ohip_default_metrics MCP tool.
type DefaultsTool struct {
	engine *scoring.Engine
}

// NewDefaultsTool creates a DefaultsTool.
func NewDefaultsTool(engine *scoring.Engine) *DefaultsTool {
	return &DefaultsTool{engine: engine}
}

// Definition returns the MCP tool definition for ohip_default_metrics.
func (t *DefaultsTool) Definition() mcp.Tool {
	return mcp.NewTool("ohip_default_metrics",
		mcp.WithDescription(
			"Return the default metric snapshot used when no country is selected, "+
				"the valid range of every metric, and the pillar scores of the defaults.",
		),
	)
}

// Handle processes the ohip_default_metrics tool call.
func (t *DefaultsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m := simulation.DefaultMetrics()
	return jsonResult(map[string]any{
		"metrics": m,
		"ranges":  simulation.Ranges(),
		"pillars": t.engine.Score(m),
	})
}
