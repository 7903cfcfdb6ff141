package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/fuzzdomain-go/check"
)

// NewCheckCommand creates a new check command that uses the provided Checker.
// Reports are written in defaultFormat unless --format is given.
func NewCheckCommand(checker Checker, defaultFormat string) *cobra.Command {
	var opts CheckOptions
	var seed uint64
	var iterations, mutations int
	var format string

	cmd := &cobra.Command{
		Use:   "check <domain>",
		Short: "Run conformance properties against a domain",
		Long: `Check runs every conformance property against the named domain.

Each property runs over a range of seeds and stops at its first failing
trial. Issues are categorized by severity (error, warning, info); only
error issues fail the check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}
			if cmd.Flags().Changed("iterations") {
				opts.Iterations = &iterations
			}
			if cmd.Flags().Changed("mutations") {
				opts.Mutations = &mutations
			}

			report, err := checker.Check(ctx, args[0], opts)
			if err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			out, err := check.FormatReport(report, format)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)

			if n := report.FailedCount(); n > 0 {
				return fmt.Errorf("check found %d failing propert%s", n, plural(n, "y", "ies"))
			}
			return nil
		},
	}

	cmd.Flags().Uint64VarP(&seed, "seed", "s", 0, "Seed of the first trial")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Trials per property")
	cmd.Flags().IntVarP(&mutations, "mutations", "m", 0, "Mutation steps per trial")
	cmd.Flags().StringVarP(&format, "format", "o", defaultFormat, "Output format (text, json, yaml)")

	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
