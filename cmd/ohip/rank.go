package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ohip/ohip/pkg/country"
)

func newRankCmd(gf *globalFlags) *cobra.Command {
	var outputFmt string

	cmd := &cobra.Command{
		Use:   "rank [record.json ...]",
		Short: "Rank countries by maturity",
		Long:  `Ranks the given record files, or every country the provider lists when no files are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(gf, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runRank(cmd.Context(), cmd.OutOrStdout(), e, args, outputFmt)
		},
	}
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	return cmd
}

func runRank(ctx context.Context, w io.Writer, e *env, files []string, outputFmt string) error {
	var recs []*country.Record
	if len(files) > 0 {
		for _, f := range files {
			rec, err := country.LoadRecord(f)
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
	} else {
		c := e.providerClient()
		if c == nil {
			return fmt.Errorf("no record files given and no provider configured")
		}
		var err error
		if recs, err = c.ListCountries(ctx); err != nil {
			return err
		}
	}

	ranked := e.engine.Rank(recs)

	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	fmt.Fprintf(w, "%4s  %-4s %-28s %8s  %4s %4s %4s %4s\n", "#", "ISO", "Country", "Maturity", "Gov", "P1", "P2", "P3")
	for _, s := range ranked {
		fmt.Fprintf(w, "%4d  %-4s %-28s %8.2f  %4d %4d %4d %4d\n",
			s.Rank, s.ISOCode, truncate(s.Name, 28), s.Maturity,
			s.Pillars.Governance, s.Pillars.Hazard, s.Pillars.Vigilance, s.Pillars.Restoration)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
