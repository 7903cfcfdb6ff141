// fuzzdomain lists, samples, checks and validates the catalog of
// flat-mapped fuzzing domains.
//
// Usage:
//
//	fuzzdomain list
//	fuzzdomain sample vector-of-copies --count 3 --seed 7
//	fuzzdomain check nested --iterations 500
//	fuzzdomain validate constant --file corpus.json
//	fuzzdomain mcp
//
// Settings are read from fuzzdomain.yaml, found by walking up from the
// working directory, and FUZZDOMAIN_* environment variables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lex00/fuzzdomain-go/catalog"
	"github.com/lex00/fuzzdomain-go/cmd"
	"github.com/lex00/fuzzdomain-go/config"
	"github.com/lex00/fuzzdomain-go/internal/logger"
	"github.com/lex00/fuzzdomain-go/mcp"
	"github.com/lex00/fuzzdomain-go/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, path, err := config.Load()
	if err != nil {
		return err
	}

	log, level := logger.NewLeveled(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, os.Stderr)
	defer func() { _ = log.Sync() }()
	if path != "" {
		log.Debug("loaded config", zap.String("path", path))
	}

	root := newRootCommand(cfg, log)
	root.PersistentPreRun = func(c *cobra.Command, _ []string) {
		if verbose, _ := c.Flags().GetBool("verbose"); verbose {
			level.SetLevel(zap.DebugLevel)
		}
	}
	root.SetArgs(args)
	return root.Execute()
}

func newRootCommand(cfg *config.Config, log *zap.Logger) *cobra.Command {
	svc := catalog.NewService(cfg, log)

	info := version.Get()

	server := mcp.NewServer(mcp.Config{Name: "fuzzdomain", Version: info.Version}, log)
	mcp.RegisterTools(server, mcp.Services{Lister: svc, Sampler: svc, Checker: svc, Validator: svc})

	root := cmd.NewRootCommand("fuzzdomain", "Flat-mapped fuzzing domains")
	root.Version = info.String()
	root.AddCommand(
		cmd.NewInitCommand(svc),
		cmd.NewListCommand(svc),
		cmd.NewSampleCommand(svc),
		cmd.NewCheckCommand(svc, cfg.Output.Format),
		cmd.NewValidateCommand(svc),
		cmd.NewMCPCommand(server),
	)
	return root
}
