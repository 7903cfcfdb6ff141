package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates a new validate command that uses the provided Validator.
func NewValidateCommand(validator Validator) *cobra.Command {
	var opts ValidateOptions

	cmd := &cobra.Command{
		Use:   "validate <domain>",
		Short: "Validate a stored corpus value",
		Long: `Validate reads a serialized corpus value from a JSON or YAML file and
checks that it parses for the named domain and is a valid corpus value.

Errors name the failing component, e.g. $.input[1] for the second input
of a flat-mapped domain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")

			errors, err := validator.Validate(ctx, args[0], opts)
			if err != nil {
				return fmt.Errorf("validate failed: %w", err)
			}

			if len(errors) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
				return nil
			}

			for _, ve := range errors {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", ve.Path, ve.Message, ve.Code)
			}

			return fmt.Errorf("validation found %d error(s)", len(errors))
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Corpus file to validate")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Corpus format (json, yaml); chosen by extension when empty")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
