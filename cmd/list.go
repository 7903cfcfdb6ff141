package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCommand creates a new list command that uses the provided Lister.
func NewListCommand(lister Lister) *cobra.Command {
	var opts ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			entries, err := lister.List(ctx, opts)
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			width := 0
			for _, e := range entries {
				width = max(width, len(e.Name))
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-*s  %s\n", width, e.Name, e.Description)
			}
			return nil
		},
	}

	return cmd
}
