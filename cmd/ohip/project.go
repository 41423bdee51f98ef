package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ohip/ohip/internal/narrative"
	"github.com/ohip/ohip/pkg/simulation"
	"github.com/ohip/ohip/pkg/surface"
)

type projectOpts struct {
	file          string
	iso           string
	sets          []string
	ratify        bool
	outputFmt     string
	withNarrative bool
}

func newProjectCmd(gf *globalFlags) *cobra.Command {
	var opts projectOpts

	cmd := &cobra.Command{
		Use:   "project [record.json]",
		Short: "Project the effect of policy changes",
		Long: `Starts from a country's current metrics (file, --iso, or the defaults), applies
each --set field=value, and compares the projected scores with the baseline.

Example:
  ohip project --iso DEU --set strategicCapacity=60 --set rehabAccess=95`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.file = args[0]
			}
			e, err := setup(gf, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runProject(cmd.Context(), cmd.OutOrStdout(), e, opts)
		},
	}

	cmd.Flags().StringVar(&opts.iso, "iso", "", "Fetch the baseline record for this ISO code from the provider")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Change a metric: field=value (repeatable)")
	cmd.Flags().BoolVar(&opts.ratify, "ratify", false, "Ratify ILO C187 in the projection")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.Flags().BoolVar(&opts.withNarrative, "narrative", false, "Add a generated analysis (needs narrative config)")
	return cmd
}

func runProject(ctx context.Context, w io.Writer, e *env, opts projectOpts) error {
	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}

	rec, err := e.loadRecord(ctx, opts.file, opts.iso)
	if err != nil {
		return err
	}

	scenario := simulation.NewScenario(rec)
	working := scenario.Working()
	for _, s := range opts.sets {
		if working, err = parseAssignment(working, s); err != nil {
			return err
		}
	}
	if opts.ratify {
		working.ILOC187Ratified = true
	}

	view := &surface.ProjectionView{Projection: e.engine.Project(scenario.Baseline(), working)}
	if rec != nil {
		view.ISOCode = rec.ISOCode
		view.Country = rec.Name
	}

	if opts.withNarrative {
		svc, err := e.narrativeService()
		if err != nil {
			return fmt.Errorf("narrative: %w", err)
		}
		text, err := svc.ProjectionReport(ctx, narrative.Subject{ISOCode: view.ISOCode, Name: view.Country}, view.Projection)
		if err != nil {
			e.log.Warn().Err(err).Msg("narrative unavailable")
		}
		view.Narrative = text
	}

	return renderer.RenderProjection(w, view)
}
