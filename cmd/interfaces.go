// Package cmd provides the command framework for the fuzzdomain CLI.
//
// Commands are built over small interfaces so the CLI can be driven by any
// implementation; package catalog provides the one used by the binary.
package cmd

import (
	"context"

	"github.com/lex00/fuzzdomain-go/check"
)

// ListOptions contains options for the list command.
type ListOptions struct {
	Verbose bool
}

// CheckOptions contains options for the check command. Nil fields keep the
// configured value.
type CheckOptions struct {
	Seed       *uint64
	Iterations *int
	Mutations  *int
	Verbose    bool
}

// SampleOptions contains options for the sample command.
type SampleOptions struct {
	Count     int
	Seed      *uint64
	Mutations int
	Shrink    bool
	Verbose   bool
}

// ValidateOptions contains options for the validate command.
type ValidateOptions struct {
	File string
	// Format is "json", "yaml", or "" to choose by file extension.
	Format  string
	Verbose bool
}

// InitOptions contains options for the init command.
type InitOptions struct {
	Force bool
}

// Entry describes a named domain.
type Entry struct {
	Name        string
	Description string
}

// Sample is one generated corpus value.
type Sample struct {
	Index int
	// Value is the printed user value.
	Value string
	// Corpus is the JSON text of the serialized corpus value.
	Corpus string
}

// ValidationError represents a reason a stored corpus value was rejected.
type ValidationError struct {
	Path    string
	Message string
	Code    string
}

// Initializer writes a starter configuration file.
type Initializer interface {
	Init(ctx context.Context, dir string, opts InitOptions) (string, error)
}

// Lister lists the available domains.
type Lister interface {
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}

// Checker runs conformance properties against a named domain.
type Checker interface {
	Check(ctx context.Context, name string, opts CheckOptions) (*check.Report, error)
}

// Sampler generates corpus values of a named domain.
type Sampler interface {
	Sample(ctx context.Context, name string, opts SampleOptions) ([]Sample, error)
}

// Validator validates a stored corpus value against a named domain.
type Validator interface {
	Validate(ctx context.Context, name string, opts ValidateOptions) ([]ValidationError, error)
}

// ToolServer serves the domain operations to tool clients until its input
// closes.
type ToolServer interface {
	Start(ctx context.Context) error
}
