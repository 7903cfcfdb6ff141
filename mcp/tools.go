package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/lex00/fuzzdomain-go/check"
	"github.com/lex00/fuzzdomain-go/cmd"
)

// Tool names.
const (
	ToolList     = "fuzzdomain_list"
	ToolSample   = "fuzzdomain_sample"
	ToolCheck    = "fuzzdomain_check"
	ToolValidate = "fuzzdomain_validate"
)

// Services backs the fuzzdomain tools. A nil field leaves its tool
// unregistered.
type Services struct {
	Lister    cmd.Lister
	Sampler   cmd.Sampler
	Checker   cmd.Checker
	Validator cmd.Validator
}

// Upper bounds on numeric tool arguments.
const (
	maxCount      = 1000
	maxMutations  = 100_000
	maxIterations = 100_000

	// largest integer a JSON number carries exactly
	maxSeed = 1 << 53
)

var domainProperty = map[string]any{
	"type":        "string",
	"description": "Catalog domain name (see fuzzdomain_list)",
}

var seedProperty = map[string]any{
	"type":        "integer",
	"description": "Base seed; omitted uses the configured seed",
}

// RegisterTools registers one tool per non-nil service.
func RegisterTools(s *Server, svc Services) {
	if svc.Lister != nil {
		s.RegisterTool(ToolList, "List the available domains", listHandler(svc.Lister), nil)
	}
	if svc.Sampler != nil {
		s.RegisterTool(ToolSample, "Generate corpus values of a domain", sampleHandler(svc.Sampler),
			objectSchema(map[string]any{
				"domain":    domainProperty,
				"count":     map[string]any{"type": "integer", "description": "Number of samples (default 5)"},
				"seed":      seedProperty,
				"mutations": map[string]any{"type": "integer", "description": "Mutation steps after init"},
				"shrink":    map[string]any{"type": "boolean", "description": "Mutate in shrink-only mode"},
			}, "domain"))
	}
	if svc.Checker != nil {
		s.RegisterTool(ToolCheck, "Run the conformance properties against a domain", checkHandler(svc.Checker),
			objectSchema(map[string]any{
				"domain":     domainProperty,
				"seed":       seedProperty,
				"iterations": map[string]any{"type": "integer", "description": "Trials per property"},
				"mutations":  map[string]any{"type": "integer", "description": "Mutations explored per trial"},
				"format": map[string]any{
					"type": "string",
					"enum": []string{"text", "json", "yaml"},
				},
			}, "domain"))
	}
	if svc.Validator != nil {
		s.RegisterTool(ToolValidate, "Validate a stored corpus file against a domain", validateHandler(svc.Validator),
			objectSchema(map[string]any{
				"domain": domainProperty,
				"file":   map[string]any{"type": "string", "description": "Path to a JSON or YAML corpus file"},
				"format": map[string]any{"type": "string", "enum": []string{"json", "yaml"}},
			}, "domain", "file"))
	}
}

func listHandler(lister cmd.Lister) ToolHandler {
	return func(ctx context.Context, _ map[string]any) (string, error) {
		entries, err := lister.List(ctx, cmd.ListOptions{})
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&b, "%s: %s\n", e.Name, e.Description)
		}
		return b.String(), nil
	}
}

func sampleHandler(sampler cmd.Sampler) ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		name, err := requiredString(args, "domain")
		if err != nil {
			return "", err
		}
		opts := cmd.SampleOptions{Count: 5}
		if n, ok, err := optionalInt(args, "count", maxCount); err != nil {
			return "", err
		} else if ok {
			opts.Count = n
		}
		if n, ok, err := optionalInt(args, "mutations", maxMutations); err != nil {
			return "", err
		} else if ok {
			opts.Mutations = n
		}
		if opts.Seed, err = optionalSeed(args); err != nil {
			return "", err
		}
		opts.Shrink, _ = args["shrink"].(bool)

		samples, err := sampler.Sample(ctx, name, opts)
		if err != nil {
			return "", err
		}

		out, err := sjson.Set(`{"samples":[]}`, "domain", name)
		if err != nil {
			return "", fmt.Errorf("encode samples: %w", err)
		}
		for _, s := range samples {
			if out, err = appendSample(out, s); err != nil {
				return "", fmt.Errorf("encode sample %d: %w", s.Index, err)
			}
		}
		return string(pretty.Pretty([]byte(out))), nil
	}
}

func appendSample(doc string, s cmd.Sample) (string, error) {
	elem, err := sjson.Set(`{}`, "index", s.Index)
	if err != nil {
		return "", err
	}
	if elem, err = sjson.Set(elem, "value", s.Value); err != nil {
		return "", err
	}
	if elem, err = sjson.SetRaw(elem, "corpus", s.Corpus); err != nil {
		return "", err
	}
	return sjson.SetRaw(doc, "samples.-1", elem)
}

func checkHandler(checker cmd.Checker) ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		name, err := requiredString(args, "domain")
		if err != nil {
			return "", err
		}
		var opts cmd.CheckOptions
		if opts.Seed, err = optionalSeed(args); err != nil {
			return "", err
		}
		if n, ok, err := optionalInt(args, "iterations", maxIterations); err != nil {
			return "", err
		} else if ok {
			opts.Iterations = &n
		}
		if n, ok, err := optionalInt(args, "mutations", maxMutations); err != nil {
			return "", err
		} else if ok {
			opts.Mutations = &n
		}
		format, _ := args["format"].(string)
		if format == "" {
			format = "text"
		}

		report, err := checker.Check(ctx, name, opts)
		if err != nil {
			return "", err
		}
		out, err := check.FormatReport(report, format)
		if err != nil {
			return "", err
		}
		if !report.Passed() {
			return "", fmt.Errorf("%d failing properties\n%s", report.FailedCount(), out)
		}
		return out, nil
	}
}

func validateHandler(validator cmd.Validator) ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		name, err := requiredString(args, "domain")
		if err != nil {
			return "", err
		}
		file, err := requiredString(args, "file")
		if err != nil {
			return "", err
		}
		format, _ := args["format"].(string)

		errs, err := validator.Validate(ctx, name, cmd.ValidateOptions{File: file, Format: format})
		if err != nil {
			return "", err
		}
		if len(errs) == 0 {
			return "valid", nil
		}
		out, err := json.MarshalIndent(errs, "", "  ")
		if err != nil {
			return "", err
		}
		return "", fmt.Errorf("invalid corpus\n%s", out)
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func requiredString(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// optionalInt accepts JSON numbers, which decode as float64, in [0, limit].
func optionalInt(args map[string]any, key string, limit int) (int, bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	f, ok := raw.(float64)
	if !ok || f != math.Trunc(f) || f < 0 {
		return 0, false, fmt.Errorf("%s must be a non-negative integer", key)
	}
	if f > float64(limit) {
		return 0, false, fmt.Errorf("%s must be at most %d", key, limit)
	}
	return int(f), true, nil
}

func optionalSeed(args map[string]any) (*uint64, error) {
	n, ok, err := optionalInt(args, "seed", maxSeed)
	if err != nil || !ok {
		return nil, err
	}
	seed := uint64(n)
	return &seed, nil
}
