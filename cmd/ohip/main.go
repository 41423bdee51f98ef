// Package main provides the ohip CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:   "ohip",
		Short: "Occupational health policy simulator",
		Long: `ohip scores national occupational health systems on four pillars,
blends them into a maturity score, and projects the effect of policy changes.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&gf.configPath, "config", "", "Path to config file (default: search for .ohip/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newDefaultsCmd(&gf),
		newScoreCmd(&gf),
		newProjectCmd(&gf),
		newRankCmd(&gf),
		newFetchCmd(&gf),
		newMCPCmd(&gf),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
