// Package config loads fuzzdomain configuration.
//
// Configuration comes from a fuzzdomain.yaml file, found by walking up from
// the working directory, with FUZZDOMAIN_* environment variables taking
// precedence over the file and built-in defaults filling the rest.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lex00/fuzzdomain-go/check"
	"github.com/lex00/fuzzdomain-go/flatmap"
	"github.com/lex00/fuzzdomain-go/prng"
)

// ConfigFilename is the standard name for fuzzdomain configuration files
const ConfigFilename = "fuzzdomain.yaml"

// EnvPrefix prefixes environment overrides, e.g. FUZZDOMAIN_LOG_LEVEL.
const EnvPrefix = "FUZZDOMAIN"

// Config represents the fuzzdomain configuration
type Config struct {
	Seed                     uint64       `mapstructure:"seed" yaml:"seed"`
	Iterations               int          `mapstructure:"iterations" yaml:"iterations" validate:"gte=1"`
	Mutations                int          `mapstructure:"mutations" yaml:"mutations" validate:"gte=0"`
	InputMutationProbability float64      `mapstructure:"input_mutation_probability" yaml:"input_mutation_probability" validate:"gte=0,lte=1"`
	DisabledProperties       []string     `mapstructure:"disabled_properties" yaml:"disabled_properties,omitempty"`
	MinSeverity              string       `mapstructure:"min_severity" yaml:"min_severity" validate:"oneof=error warning info"`
	Generator                string       `mapstructure:"generator" yaml:"generator" validate:"oneof=pcg lcg48"`
	Log                      LogConfig    `mapstructure:"log" yaml:"log"`
	Output                   OutputConfig `mapstructure:"output" yaml:"output"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
}

// OutputConfig represents report output configuration
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json yaml"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Seed:                     1,
		Iterations:               100,
		Mutations:                20,
		InputMutationProbability: flatmap.DefaultInputMutationProbability,
		MinSeverity:              "info",
		Generator:                prng.GeneratorPCG,
		Log:                      LogConfig{Level: "warn", Format: "console"},
		Output:                   OutputConfig{Format: "text"},
	}
}

// CheckConfig converts the configuration to check run settings.
func (c *Config) CheckConfig() (*check.Config, error) {
	severity, err := check.ParseSeverity(c.MinSeverity)
	if err != nil {
		return nil, err
	}
	return &check.Config{
		DisabledProperties: append([]string(nil), c.DisabledProperties...),
		MinSeverity:        severity,
		Seed:               c.Seed,
		Iterations:         c.Iterations,
		Mutations:          c.Mutations,
		Generator:          c.Generator,
	}, nil
}

// Load loads from current directory, walking up to find fuzzdomain.yaml
func Load() (*Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadFrom(cwd)
}

// LoadFrom loads starting from specified directory, walking up the tree.
// It returns the path of the file used, or "" when none was found.
func LoadFrom(startDir string) (*Config, string, error) {
	path, err := Find(startDir)
	if err != nil {
		return nil, "", err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Find walks up from startDir and returns the path of the first
// fuzzdomain.yaml, or "" when there is none.
func Find(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	currentDir := absDir
	for {
		configPath := filepath.Join(currentDir, ConfigFilename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

// LoadFile loads from a specific path, applying defaults and environment
// overrides. An empty path loads defaults and environment only.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("seed", d.Seed)
	v.SetDefault("iterations", d.Iterations)
	v.SetDefault("mutations", d.Mutations)
	v.SetDefault("input_mutation_probability", d.InputMutationProbability)
	v.SetDefault("disabled_properties", []string{})
	v.SetDefault("min_severity", d.MinSeverity)
	v.SetDefault("generator", d.Generator)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("output.format", d.Output.Format)
}

// SaveTo saves to a specific path
func SaveTo(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
