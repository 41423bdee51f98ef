package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ohip/ohip/pkg/scoring"
	"github.com/ohip/ohip/pkg/surface"
)

// ProjectTool handles the ohip_project MCP tool.
type ProjectTool struct {
	engine *scoring.Engine
	load   LoadFunc
}

// NewProjectTool creates a ProjectTool. load may be nil.
func NewProjectTool(engine *scoring.Engine, load LoadFunc) *ProjectTool {
	return &ProjectTool{engine: engine, load: load}
}

// Definition returns the MCP tool definition for ohip_project.
func (t *ProjectTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Project the effect of policy changes. The baseline is the country's current data " +
				"(or the defaults when iso_code is omitted); every metric argument given is applied on top of it. " +
				"Returns baseline and projected pillar scores, the maturity delta and whether it is an improvement.",
		),
		mcp.WithString("iso_code",
			mcp.Description("ISO 3166-1 alpha-3 code of the baseline country"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: markdown (default) or json"),
		),
	}
	return mcp.NewTool("ohip_project", withMetricArgs(opts)...)
}

// Handle processes the ohip_project tool call.
func (t *ProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, base, err := baseline(ctx, req, t.load)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	working, err := applyMetricArgs(req, base)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	view := &surface.ProjectionView{Projection: t.engine.Project(base, working)}
	if rec != nil {
		view.ISOCode = rec.ISOCode
		view.Country = rec.Name
	}

	switch req.GetString("format", "markdown") {
	case "json":
		return jsonResult(view)
	case "markdown", "":
		return mcp.NewToolResultText(surface.BuildProjectionMarkdown(view)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: want markdown or json", req.GetString("format", ""))), nil
	}
}
