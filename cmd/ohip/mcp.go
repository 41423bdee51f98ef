package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ohip/ohip/internal/mcptools"
)

func newMCPCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the scoring tools over MCP (stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(gf, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var load mcptools.LoadFunc
			if c := e.providerClient(); c != nil {
				load = c.GetCountry
			}
			return server.ServeStdio(mcptools.NewServer(version, e.engine, load))
		},
	}
}
