package cli

import (
	"github.com/akolanti/kbcurator/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve classify, validate and probe tools over MCP on stdio",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := mcpserver.NewServer(a.curationService())
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
}
