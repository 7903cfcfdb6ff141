package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lex00/fuzzdomain-go/check"
	"github.com/lex00/fuzzdomain-go/cmd"
	"github.com/lex00/fuzzdomain-go/config"
	"github.com/lex00/fuzzdomain-go/domain"
	"github.com/lex00/fuzzdomain-go/ir"
	"github.com/lex00/fuzzdomain-go/prng"
	"github.com/lex00/fuzzdomain-go/serialize"
)

// MaxSampleCount bounds the number of values one Sample call generates.
const MaxSampleCount = 100_000

// CodeParse is the code reported for corpus files that do not parse.
const CodeParse = "PARSE_ERROR"

// Service implements the CLI interfaces over the catalog.
type Service struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *check.Registry
}

var (
	_ cmd.Initializer = (*Service)(nil)
	_ cmd.Lister      = (*Service)(nil)
	_ cmd.Checker     = (*Service)(nil)
	_ cmd.Sampler     = (*Service)(nil)
	_ cmd.Validator   = (*Service)(nil)
)

// NewService returns a service using cfg. A nil cfg uses config.Default and
// a nil log discards output.
func NewService(cfg *config.Config, log *zap.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cfg: cfg, log: log, registry: check.DefaultRegistry()}
}

func (s *Service) build(name string) (domain.Untyped, error) {
	entry, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return entry.Build(s.cfg.InputMutationProbability), nil
}

// Init writes the service's configuration to dir/fuzzdomain.yaml. It refuses
// to replace an existing file unless opts.Force is set.
func (s *Service) Init(_ context.Context, dir string, opts cmd.InitOptions) (string, error) {
	path := filepath.Join(dir, config.ConfigFilename)
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.SaveTo(s.cfg, path); err != nil {
		return "", err
	}
	s.log.Debug("wrote config", zap.String("path", path))
	return path, nil
}

// List returns the catalog entries.
func (s *Service) List(_ context.Context, _ cmd.ListOptions) ([]cmd.Entry, error) {
	all := Entries()
	out := make([]cmd.Entry, len(all))
	for i, e := range all {
		out[i] = cmd.Entry{Name: e.Name, Description: e.Description}
	}
	return out, nil
}

// Check runs every registered property against the named domain.
func (s *Service) Check(ctx context.Context, name string, opts cmd.CheckOptions) (*check.Report, error) {
	d, err := s.build(name)
	if err != nil {
		return nil, err
	}

	cc, err := s.cfg.CheckConfig()
	if err != nil {
		return nil, err
	}
	if opts.Seed != nil {
		cc.Seed = *opts.Seed
	}
	if opts.Iterations != nil {
		cc.Iterations = *opts.Iterations
	}
	if opts.Mutations != nil {
		cc.Mutations = *opts.Mutations
	}

	return check.Run(ctx, name, d, s.registry.All(), cc, s.log)
}

// Sample generates opts.Count corpus values from one random stream. Each
// starts from Init and takes opts.Mutations mutation steps.
func (s *Service) Sample(ctx context.Context, name string, opts cmd.SampleOptions) ([]cmd.Sample, error) {
	d, err := s.build(name)
	if err != nil {
		return nil, err
	}
	if opts.Count < 1 || opts.Count > MaxSampleCount {
		return nil, fmt.Errorf("count must be in [1, %d], got %d", MaxSampleCount, opts.Count)
	}

	seed := s.cfg.Seed
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	src, err := prng.NewSource(s.cfg.Generator, seed)
	if err != nil {
		return nil, err
	}
	s.log.Debug("sampling",
		zap.String("domain", name),
		zap.Uint64("seed", seed),
		zap.String("generator", s.cfg.Generator),
		zap.Int("count", opts.Count),
	)

	samples := make([]cmd.Sample, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c := d.InitAny(src)
		for step := 0; step < opts.Mutations; step++ {
			c = d.MutateAny(c, src, opts.Shrink)
		}

		data, err := serialize.ToJSON(d.SerializeCorpusAny(c))
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		var sb strings.Builder
		d.PrintCorpusValueAny(c, &sb, domain.HumanReadable)
		samples = append(samples, cmd.Sample{Index: i, Value: sb.String(), Corpus: string(data)})
	}
	return samples, nil
}

// Validate reads a corpus value from opts.File and checks it against the
// named domain. It returns no validation errors when the value is valid.
func (s *Service) Validate(_ context.Context, name string, opts cmd.ValidateOptions) ([]cmd.ValidationError, error) {
	d, err := s.build(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(opts.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	obj, err := decode(data, opts.Format, opts.File)
	if err != nil {
		return []cmd.ValidationError{{Path: opts.File, Message: err.Error(), Code: CodeParse}}, nil
	}

	c, ok := d.ParseCorpusAny(obj)
	if !ok {
		return []cmd.ValidationError{{
			Path:    opts.File,
			Message: fmt.Sprintf("corpus %s does not match domain %s", obj.Format(), name),
			Code:    CodeParse,
		}}, nil
	}

	if err := d.ValidateCorpusValueAny(c); err != nil {
		s.log.Debug("corpus rejected", zap.String("domain", name), zap.Error(err))
		return []cmd.ValidationError{{
			Path:    componentPath(err),
			Message: err.Error(),
			Code:    domain.CodeOf(err),
		}}, nil
	}
	return nil, nil
}

func decode(data []byte, format, file string) (ir.Object, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	switch strings.ToLower(format) {
	case "json":
		return serialize.FromJSON(data)
	case "yaml", "yml":
		return serialize.FromYAML(data)
	default:
		return ir.None(), fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
	}
}

// componentPath renders the chain of components an error passes through,
// e.g. "$.input[0].element[2]".
func componentPath(err error) string {
	var sb strings.Builder
	sb.WriteString("$")
	for err != nil {
		var ce *domain.CorpusError
		if !errors.As(err, &ce) {
			break
		}
		switch ce.Component {
		case domain.ComponentInput, domain.ComponentElement:
			fmt.Fprintf(&sb, ".%s[%d]", ce.Component, ce.Index)
		case domain.ComponentOutput:
			sb.WriteString(".output")
		}
		err = ce.Err
	}
	return sb.String()
}
