package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates a new init command that uses the provided Initializer.
func NewInitCommand(initializer Initializer) *cobra.Command {
	var opts InitOptions

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter configuration file",
		Long: `Init writes fuzzdomain.yaml with the default settings into the given
directory, or the current directory when none is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			path, err := initializer.Init(ctx, dir, opts)
			if err != nil {
				return fmt.Errorf("init failed: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
