package cmd

import (
	"github.com/spf13/cobra"
)

const rootLong = `

Domains describe how to generate, mutate, persist and validate fuzzing
inputs. Flat-mapped domains compute their output domain from the values of
their input domains on every operation.

  init      write a starter fuzzdomain.yaml
  list      show the named domains of the catalog
  sample    generate corpus values from a seed
  check     run the conformance properties against a domain
  validate  parse and validate a stored corpus file
  mcp       serve the operations as MCP tools on stdio

Settings come from fuzzdomain.yaml, found by walking up from the working
directory, and FUZZDOMAIN_* environment variables.`

// NewRootCommand creates the root command. Subcommands are added by the
// caller.
func NewRootCommand(name, description string) *cobra.Command {
	root := &cobra.Command{
		Use:           name,
		Short:         description,
		Long:          description + rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")
	return root
}
