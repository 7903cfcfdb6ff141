package cmd

import (
	"github.com/spf13/cobra"
)

// NewMCPCommand creates the mcp command, which runs server on stdio.
func NewMCPCommand(server ToolServer) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve list, sample, check and validate as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Start(cmd.Context())
		},
	}
}
