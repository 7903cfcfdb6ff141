package check

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// PropertyResult is the outcome of one property.
type PropertyResult struct {
	ID          string  `json:"id" yaml:"id"`
	Description string  `json:"description" yaml:"description"`
	Trials      int     `json:"trials" yaml:"trials"`
	Issues      []Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Failed returns true if any reported issue has error severity.
func (r PropertyResult) Failed() bool {
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Report is the outcome of a check run against one domain.
type Report struct {
	Domain     string           `json:"domain" yaml:"domain"`
	Seed       uint64           `json:"seed" yaml:"seed"`
	Iterations int              `json:"iterations" yaml:"iterations"`
	Mutations  int              `json:"mutations" yaml:"mutations"`
	Properties []PropertyResult `json:"properties" yaml:"properties"`
}

// Passed returns true if no property failed.
func (r *Report) Passed() bool {
	return r.FailedCount() == 0
}

// FailedCount returns the number of failed properties.
func (r *Report) FailedCount() int {
	n := 0
	for _, p := range r.Properties {
		if p.Failed() {
			n++
		}
	}
	return n
}

// FormatReport formats a Report based on the requested output format.
// Supported formats: text, json, yaml.
func FormatReport(report *Report, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		bytes, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(bytes) + "\n", nil
	case "yaml", "yml":
		bytes, err := yaml.Marshal(report)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return string(bytes), nil
	case "text", "":
		return formatText(report), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
	}
}

func formatText(report *Report) string {
	var sb strings.Builder

	if report.Passed() {
		sb.WriteString("✓ ")
	} else {
		sb.WriteString("✗ ")
	}
	fmt.Fprintf(&sb, "%s: %d/%d properties passed (seed %d, %d iterations, %d mutations)\n",
		report.Domain, len(report.Properties)-report.FailedCount(), len(report.Properties),
		report.Seed, report.Iterations, report.Mutations)

	for _, p := range report.Properties {
		status := "PASS"
		if p.Failed() {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "  %s %s  %s (%d trials)\n", status, p.ID, p.Description, p.Trials)
		for _, is := range p.Issues {
			fmt.Fprintf(&sb, "       %s: %s (trial %d, seed %d)\n", is.Severity, is.Message, is.Trial, is.Seed)
			if is.Corpus != "" {
				fmt.Fprintf(&sb, "       corpus: %s\n", is.Corpus)
			}
		}
	}

	return sb.String()
}
