package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ohip/ohip/pkg/simulation"
)

func newDefaultsCmd(gf *globalFlags) *cobra.Command {
	var outputFmt string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Show the default metric snapshot and slider ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(gf, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runDefaults(cmd.OutOrStdout(), e, outputFmt)
		},
	}
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	return cmd
}

func runDefaults(w io.Writer, e *env, outputFmt string) error {
	m := simulation.DefaultMetrics()
	ranges := simulation.Ranges()

	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"metrics": m,
			"ranges":  ranges,
			"pillars": e.engine.Score(m),
		})
	}

	for _, f := range simulation.Fields() {
		v, _ := m.Get(f)
		r := ranges[f]
		fmt.Fprintf(w, "  %-22s %6g   [%g, %g]\n", f, v, r.Min, r.Max)
	}
	fmt.Fprintf(w, "  %-22s %6t\n", simulation.FieldILOC187Ratified, m.ILOC187Ratified)

	p := e.engine.Score(m)
	fmt.Fprintf(w, "\nPillars: governance %d, hazard %d, vigilance %d, restoration %d\n",
		p.Governance, p.Hazard, p.Vigilance, p.Restoration)
	fmt.Fprintf(w, "Maturity: %.2f / 4.0\n", e.engine.Aggregate(p))
	return nil
}
