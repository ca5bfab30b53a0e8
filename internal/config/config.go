// Package config loads scenario settings from defaults, an optional YAML
// file and SCENARIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SCENARIO_GENERATOR_COMMAND.
const EnvPrefix = "SCENARIO"

// Config is the full application configuration.
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator" json:"generator"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" json:"pipeline"`
	Log       LogConfig       `mapstructure:"log" json:"log"`
}

// GeneratorConfig selects and configures the text generator backend.
type GeneratorConfig struct {
	// Kind is "cli" or "openai".
	Kind    string        `mapstructure:"kind" json:"kind"`
	Command string        `mapstructure:"command" json:"command"`
	Args    []string      `mapstructure:"args" json:"args"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
	Model   string        `mapstructure:"model" json:"model"`
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	// APIKey may reference environment variables as ${NAME}.
	APIKey string `mapstructure:"api_key" json:"api_key"`
}

// PipelineConfig tunes the stage runner.
type PipelineConfig struct {
	Count           int           `mapstructure:"count" json:"count"`
	Retries         uint          `mapstructure:"retries" json:"retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" json:"retry_delay"`
	Repair          bool          `mapstructure:"repair" json:"repair"`
	OutputDir       string        `mapstructure:"output_dir" json:"output_dir"`
	References      string        `mapstructure:"references" json:"references"`
	ReferenceSample int           `mapstructure:"reference_sample" json:"reference_sample"`
}

// LogConfig configures the slog-backed observer.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Generator: GeneratorConfig{
			Kind:    "cli",
			Command: "claude",
			Timeout: 5 * time.Minute,
			Model:   "gpt-4o-mini",
		},
		Pipeline: PipelineConfig{
			Count:           5,
			Retries:         2,
			RetryDelay:      2 * time.Second,
			OutputDir:       "output",
			References:      "references/processed/lovewar.json",
			ReferenceSample: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration. An explicit cfgFile must exist; otherwise
// scenario.yaml is looked up in the working directory and $HOME/.scenario and
// may be absent.
func Load(cfgFile string) (Config, error) {
	v := newViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("scenario")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.scenario")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Generator.APIKey = ResolveEnvVars(cfg.Generator.APIKey)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("generator.kind", d.Generator.Kind)
	v.SetDefault("generator.command", d.Generator.Command)
	v.SetDefault("generator.args", d.Generator.Args)
	v.SetDefault("generator.timeout", d.Generator.Timeout)
	v.SetDefault("generator.model", d.Generator.Model)
	v.SetDefault("generator.base_url", d.Generator.BaseURL)
	v.SetDefault("generator.api_key", d.Generator.APIKey)

	v.SetDefault("pipeline.count", d.Pipeline.Count)
	v.SetDefault("pipeline.retries", d.Pipeline.Retries)
	v.SetDefault("pipeline.retry_delay", d.Pipeline.RetryDelay)
	v.SetDefault("pipeline.repair", d.Pipeline.Repair)
	v.SetDefault("pipeline.output_dir", d.Pipeline.OutputDir)
	v.SetDefault("pipeline.references", d.Pipeline.References)
	v.SetDefault("pipeline.reference_sample", d.Pipeline.ReferenceSample)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Generator.Kind {
	case "cli":
		if c.Generator.Command == "" {
			return errors.New("generator.command is required for the cli generator")
		}
	case "openai":
		if c.Generator.Model == "" {
			return errors.New("generator.model is required for the openai generator")
		}
	default:
		return fmt.Errorf("generator.kind must be cli or openai, got %q", c.Generator.Kind)
	}
	if c.Generator.Timeout < 0 {
		return errors.New("generator.timeout must not be negative")
	}
	if c.Pipeline.Count < 1 {
		return fmt.Errorf("pipeline.count must be at least 1, got %d", c.Pipeline.Count)
	}
	if c.Pipeline.RetryDelay < 0 {
		return errors.New("pipeline.retry_delay must not be negative")
	}
	if c.Pipeline.ReferenceSample < 0 {
		return errors.New("pipeline.reference_sample must not be negative")
	}
	return nil
}

// Attempts is the total number of generator calls per stage run.
func (p PipelineConfig) Attempts() uint {
	return p.Retries + 1
}

// WriteDefault writes the default configuration as YAML to path.
func WriteDefault(path string) error {
	v := viper.New()
	setDefaults(v, Default())
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in value.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRef.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}
