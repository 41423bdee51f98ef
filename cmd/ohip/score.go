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

type scoreOpts struct {
	file          string
	iso           string
	outputFmt     string
	withNarrative bool
}

func newScoreCmd(gf *globalFlags) *cobra.Command {
	var opts scoreOpts

	cmd := &cobra.Command{
		Use:   "score [record.json]",
		Short: "Score a country record",
		Long: `Scores a country record read from a file, fetched from the provider with --iso,
or, with neither, the default snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.file = args[0]
			}
			e, err := setup(gf, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runScore(cmd.Context(), cmd.OutOrStdout(), e, opts)
		},
	}

	cmd.Flags().StringVar(&opts.iso, "iso", "", "Fetch the record for this ISO code from the provider")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text, json or markdown")
	cmd.Flags().BoolVar(&opts.withNarrative, "narrative", false, "Add a generated analysis (needs narrative config)")
	return cmd
}

func runScore(ctx context.Context, w io.Writer, e *env, opts scoreOpts) error {
	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}

	rec, err := e.loadRecord(ctx, opts.file, opts.iso)
	if err != nil {
		return err
	}

	view := &surface.ScorecardView{Scorecard: e.engine.Scorecard(simulation.Extract(rec))}
	if rec != nil {
		view.ISOCode = rec.ISOCode
		view.Country = rec.Name
		view.Reported = rec.MaturityScore
	}

	if opts.withNarrative {
		svc, err := e.narrativeService()
		if err != nil {
			return fmt.Errorf("narrative: %w", err)
		}
		text, err := svc.ScorecardReport(ctx, narrative.Subject{ISOCode: view.ISOCode, Name: view.Country}, view.Scorecard)
		if err != nil {
			e.log.Warn().Err(err).Msg("narrative unavailable")
		}
		view.Narrative = text
	}

	return renderer.RenderScorecard(w, view)
}
