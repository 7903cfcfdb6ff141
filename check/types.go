// Package check runs conformance properties against domains.
//
// A property is a randomized check of one guarantee of the domain contract,
// such as "every initial corpus value validates" or "serialization round
// trips". The runner executes each property over a range of seeds and
// collects the issues found into a Report.
package check

import (
	"fmt"
	"slices"
	"strings"
)

// Severity indicates the severity level of an issue.
type Severity int

const (
	// SeverityError indicates a broken contract guarantee.
	SeverityError Severity = iota
	// SeverityWarning indicates behavior that is allowed but suspicious.
	SeverityWarning
	// SeverityInfo indicates an informational message, such as an
	// unsupported optional operation.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses "error", "warning" or "info".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info", "":
		return SeverityInfo, nil
	default:
		return 0, fmt.Errorf("unknown severity: %s (supported: error, warning, info)", s)
	}
}

// Issue is a single finding of a property.
type Issue struct {
	// Property is the ID of the property that found this issue.
	Property string `json:"property" yaml:"property"`
	// Severity indicates how serious the issue is.
	Severity Severity `json:"severity" yaml:"severity"`
	// Message describes the issue.
	Message string `json:"message" yaml:"message"`
	// Trial is the index of the trial that found the issue.
	Trial int `json:"trial" yaml:"trial"`
	// Seed is the random seed of that trial.
	Seed uint64 `json:"seed" yaml:"seed"`
	// Corpus is the printed corpus value involved, when there is one.
	Corpus string `json:"corpus,omitempty" yaml:"corpus,omitempty"`
}

// String formats the issue on one line.
func (i Issue) String() string {
	s := fmt.Sprintf("[%s] %s: %s", i.Severity, i.Property, i.Message)
	if i.Corpus != "" {
		s += " (corpus " + i.Corpus + ")"
	}
	return s
}

// Config controls a check run.
type Config struct {
	// DisabledProperties is a list of property IDs to skip.
	DisabledProperties []string
	// MinSeverity is the least severe level to report. Issues with a lower
	// severity are filtered out.
	MinSeverity Severity
	// Seed is the seed of the first trial; trial i uses Seed+i.
	Seed uint64
	// Iterations is the number of trials per property.
	Iterations int
	// Mutations is the number of mutation steps a trial applies.
	Mutations int
	// Generator names the prng generator trials draw from.
	Generator string
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		MinSeverity: SeverityInfo,
		Seed:        1,
		Iterations:  100,
		Mutations:   20,
	}
}

// IsPropertyDisabled returns true if the given property ID is disabled.
func (c *Config) IsPropertyDisabled(id string) bool {
	return slices.Contains(c.DisabledProperties, id)
}

// ShouldReport returns true if the issue should be reported based on config.
func (c *Config) ShouldReport(issue Issue) bool {
	if c.IsPropertyDisabled(issue.Property) {
		return false
	}
	// Lower severity value means higher priority (Error=0 is most severe)
	return issue.Severity <= c.MinSeverity
}
