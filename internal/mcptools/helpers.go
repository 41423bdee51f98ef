// Package mcptools exposes the scoring model as MCP tools, so an assistant
// can score countries and try policy changes over stdio.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema and a Handle() method.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ohip/ohip/pkg/country"
	"github.com/ohip/ohip/pkg/simulation"
)

// LoadFunc fetches a country record by ISO code.
type LoadFunc func(ctx context.Context, isoCode string) (*country.Record, error)

// floatArg extracts a number argument. ok is false when the key is absent
// or not a number (JSON numbers are float64).
func floatArg(req mcp.CallToolRequest, key string) (v float64, ok bool) {
	v, ok = req.GetArguments()[key].(float64)
	return v, ok
}

// boolArg extracts a boolean argument.
func boolArg(req mcp.CallToolRequest, key string) (v bool, ok bool) {
	v, ok = req.GetArguments()[key].(bool)
	return v, ok
}

// withMetricArgs adds one optional number argument per numeric field plus
// the ratification flag.
func withMetricArgs(opts []mcp.ToolOption) []mcp.ToolOption {
	for _, f := range simulation.Fields() {
		r := simulation.Ranges()[f]
		opts = append(opts, mcp.WithNumber(string(f),
			mcp.Description(fmt.Sprintf("Override %s (%g to %g)", f, r.Min, r.Max)),
		))
	}
	return append(opts, mcp.WithBoolean(simulation.FieldILOC187Ratified,
		mcp.Description("Override ILO C187 ratification"),
	))
}

// applyMetricArgs sets every metric argument present in req on m, clamping
// to the field's range.
func applyMetricArgs(req mcp.CallToolRequest, m simulation.Metrics) (simulation.Metrics, error) {
	for _, f := range simulation.Fields() {
		if v, ok := floatArg(req, string(f)); ok {
			var err error
			if m, err = m.With(f, v); err != nil {
				return m, err
			}
		}
	}
	if v, ok := boolArg(req, simulation.FieldILOC187Ratified); ok {
		m.ILOC187Ratified = v
	}
	return m, nil
}

// baseline resolves the iso_code argument to an extracted snapshot, or the
// defaults when it is empty.
func baseline(ctx context.Context, req mcp.CallToolRequest, load LoadFunc) (*country.Record, simulation.Metrics, error) {
	iso := strings.ToUpper(strings.TrimSpace(req.GetString("iso_code", "")))
	if iso == "" {
		return nil, simulation.DefaultMetrics(), nil
	}
	if load == nil {
		return nil, simulation.Metrics{}, fmt.Errorf("no country data source is configured; omit iso_code to start from the defaults")
	}
	rec, err := load(ctx, iso)
	if err != nil {
		return nil, simulation.Metrics{}, fmt.Errorf("load %s: %w", iso, err)
	}
	return rec, simulation.Extract(rec), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
