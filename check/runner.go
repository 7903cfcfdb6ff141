package check

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/prng"
)

// Run executes props against d and returns the report. Trial i of every
// property uses seed cfg.Seed+i. A property stops at its first failing trial.
// Run returns ctx's error when the context is cancelled between trials.
func Run(ctx context.Context, name string, d domain.Untyped, props []Property, cfg *Config, log *zap.Logger) (*Report, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("iterations must be at least 1, got %d", cfg.Iterations)
	}
	if _, err := prng.NewSource(cfg.Generator, cfg.Seed); err != nil {
		return nil, err
	}

	log = log.With(zap.String("domain", name))
	report := &Report{
		Domain:     name,
		Seed:       cfg.Seed,
		Iterations: cfg.Iterations,
		Mutations:  cfg.Mutations,
	}

	start := time.Now()
	for _, p := range props {
		if cfg.IsPropertyDisabled(p.ID()) {
			log.Debug("property disabled", zap.String("property", p.ID()))
			continue
		}

		result := PropertyResult{ID: p.ID(), Description: p.Description()}
		for i := 0; i < cfg.Iterations; i++ {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("check %s: %w", name, err)
			}

			trial := Trial{Index: i, Seed: cfg.Seed + uint64(i), Mutations: cfg.Mutations, Generator: cfg.Generator}
			issues := runTrial(p, d, trial)
			result.Trials++
			if len(issues) == 0 {
				continue
			}
			for _, is := range issues {
				if cfg.ShouldReport(is) {
					result.Issues = append(result.Issues, is)
				}
			}
			log.Debug("property stopped",
				zap.String("property", p.ID()),
				zap.Int("trial", i),
				zap.Uint64("seed", trial.Seed),
				zap.Int("issues", len(issues)),
			)
			break
		}

		if result.Failed() {
			log.Warn("property failed",
				zap.String("property", p.ID()),
				zap.String("message", result.Issues[0].Message),
			)
		}
		report.Properties = append(report.Properties, result)
	}

	log.Info("check finished",
		zap.Int("properties", len(report.Properties)),
		zap.Int("failed", report.FailedCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

// runTrial runs one trial, turning a panic into an error issue.
func runTrial(p Property, d domain.Untyped, trial Trial) (issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = []Issue{{
				Property: p.ID(),
				Severity: SeverityError,
				Message:  fmt.Sprintf("panic: %v", r),
				Trial:    trial.Index,
				Seed:     trial.Seed,
			}}
		}
	}()
	return p.Check(d, trial)
}
