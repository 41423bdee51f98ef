package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ohip/ohip/pkg/scoring"
)

// NewServer creates an MCP server with every ohip tool registered. A nil
// engine uses the default weights.
func NewServer(version string, engine *scoring.Engine, load LoadFunc) *server.MCPServer {
	if engine == nil {
		engine = scoring.DefaultEngine()
	}

	s := server.NewMCPServer(
		"ohip",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	defaults := NewDefaultsTool(engine)
	s.AddTool(defaults.Definition(), defaults.Handle)

	scorecard := NewScorecardTool(engine, load)
	s.AddTool(scorecard.Definition(), scorecard.Handle)

	project := NewProjectTool(engine, load)
	s.AddTool(project.Definition(), project.Handle)

	return s
}

const instructions = `Tools for the occupational health policy simulator.
Start with ohip_default_metrics to see the inputs and their ranges.
Use ohip_scorecard to score a country and ohip_project to compare a baseline with changed inputs.
Pillar scores are integers 0-100; maturity runs from 1.0 to 4.0.`
