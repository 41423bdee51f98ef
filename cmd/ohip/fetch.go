package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ohip/ohip/pkg/country"
)

func newFetchCmd(gf *globalFlags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "fetch ISO [ISO ...]",
		Short: "Download country records from the provider",
		Long:  `Saves each record as <dir>/<ISO>.json so it can be scored offline.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(gf, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runFetch(cmd.Context(), e, args, outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "dir", "d", ".", "Directory to write records to")
	return cmd
}

func runFetch(ctx context.Context, e *env, isoCodes []string, outDir string) error {
	for _, iso := range isoCodes {
		rec, err := e.loadRecord(ctx, "", iso)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, strings.ToUpper(iso)+".json")
		if err := country.SaveRecord(path, rec); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", path)
	}
	return nil
}
