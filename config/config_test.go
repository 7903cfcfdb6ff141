package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/fuzzdomain-go/check"
	"github.com/lex00/fuzzdomain-go/prng"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromWithoutFileUsesDefaults(t *testing.T) {
	cfg, path, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), withNilSlice(cfg))
}

// withNilSlice normalizes the empty disabled list viper decodes.
func withNilSlice(cfg *Config) *Config {
	if len(cfg.DisabledProperties) == 0 {
		cfg.DisabledProperties = nil
	}
	return cfg
}

func TestLoadFromWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, `
seed: 7
iterations: 12
input_mutation_probability: 0.25
disabled_properties: [INV001, SER003]
log:
  level: debug
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, path, err := LoadFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 12, cfg.Iterations)
	assert.Equal(t, 20, cfg.Mutations)
	assert.InDelta(t, 0.25, cfg.InputMutationProbability, 1e-9)
	assert.Equal(t, []string{"INV001", "SER003"}, cfg.DisabledProperties)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "iterations: 12\n")
	t.Setenv("FUZZDOMAIN_ITERATIONS", "3")
	t.Setenv("FUZZDOMAIN_LOG_FORMAT", "json")
	t.Setenv("FUZZDOMAIN_OUTPUT_FORMAT", "yaml")

	cfg, _, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Iterations)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"zero iterations", "iterations: 0\n", "iterations"},
		{"negative mutations", "mutations: -1\n", "mutations"},
		{"probability above one", "input_mutation_probability: 1.5\n", "input_mutation_probability"},
		{"unknown severity", "min_severity: fatal\n", "min_severity"},
		{"unknown generator", "generator: mt19937\n", "generator"},
		{"unknown log level", "log:\n  level: trace\n", "log.level"},
		{"unknown output format", "output:\n  format: xml\n", "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, _, err := LoadFrom(dir)
			require.Error(t, err)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "iterations: [\n")

	_, _, err := LoadFrom(dir)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestSaveToRoundTrips(t *testing.T) {
	cfg := Default()
	cfg.Seed = 99
	cfg.DisabledProperties = []string{"DET001"}
	cfg.Output.Format = "json"

	path := filepath.Join(t.TempDir(), "nested", ConfigFilename)
	require.NoError(t, SaveTo(cfg, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidationErrorMessage(t *testing.T) {
	cfg := Default()
	cfg.Iterations = 0
	cfg.Log.Format = "xml"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Equal(t, "iterations: must be greater than or equal to 1; log.format: must be one of: json console", err.Error())
}

func TestCheckConfig(t *testing.T) {
	cfg := Default()
	cfg.MinSeverity = "warning"
	cfg.DisabledProperties = []string{"INV001"}

	cc, err := cfg.CheckConfig()
	require.NoError(t, err)
	assert.Equal(t, check.SeverityWarning, cc.MinSeverity)
	assert.Equal(t, uint64(1), cc.Seed)
	assert.Equal(t, 100, cc.Iterations)
	assert.Equal(t, 20, cc.Mutations)
	assert.Equal(t, prng.GeneratorPCG, cc.Generator)
	assert.True(t, cc.IsPropertyDisabled("INV001"))

	cfg.MinSeverity = "fatal"
	_, err = cfg.CheckConfig()
	assert.Error(t, err)
}
