package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSampleCommand creates a new sample command that uses the provided Sampler.
func NewSampleCommand(sampler Sampler) *cobra.Command {
	opts := SampleOptions{Count: 5}
	var seed uint64
	var corpusOnly bool

	cmd := &cobra.Command{
		Use:   "sample <domain>",
		Short: "Generate corpus values of a domain",
		Long: `Sample generates corpus values of the named domain and prints each
value with its serialized corpus.

Every sample starts from a fresh initial value and then takes the given
number of mutation steps. With --shrink the steps only simplify.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}

			samples, err := sampler.Sample(ctx, args[0], opts)
			if err != nil {
				return fmt.Errorf("sample failed: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, s := range samples {
				if corpusOnly {
					_, _ = fmt.Fprintln(out, s.Corpus)
					continue
				}
				_, _ = fmt.Fprintf(out, "[%d] %s\n    %s\n", s.Index, s.Value, s.Corpus)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "c", opts.Count, "Number of samples")
	cmd.Flags().Uint64VarP(&seed, "seed", "s", 0, "Random seed")
	cmd.Flags().IntVarP(&opts.Mutations, "mutations", "m", 0, "Mutation steps per sample")
	cmd.Flags().BoolVar(&opts.Shrink, "shrink", false, "Only take simplifying mutation steps")
	cmd.Flags().BoolVar(&corpusOnly, "corpus", false, "Print only the serialized corpus, one per line")

	return cmd
}
