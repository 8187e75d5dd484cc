package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// HTTPConfig configures the HTTP surface.
type HTTPConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`
	// ReadTimeout bounds request reads.
	ReadTimeout Duration `yaml:"readTimeout"`
	// WriteTimeout bounds response writes.
	WriteTimeout Duration `yaml:"writeTimeout"`
}

// PipelineConfig tunes the turn pipeline.
type PipelineConfig struct {
	// HistoryTurns bounds the disambiguation/classification history window.
	HistoryTurns int `yaml:"historyTurns"`
	// ProactiveProbability gates the proactive-suggestion detector.
	ProactiveProbability float64 `yaml:"proactiveProbability"`
	// DefaultToolTimeout applies to tools without their own timeout.
	DefaultToolTimeout Duration `yaml:"defaultToolTimeout"`
}

// CompletionConfig selects the structured completion provider.
type CompletionConfig struct {
	// Provider is "openai" or "anthropic".
	Provider string `yaml:"provider"`
	// Model optionally overrides the provider default.
	Model string `yaml:"model"`
}

// LoggingConfig tunes log output.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Config is the full configuration document.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Completion CompletionConfig `yaml:"completion"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration(15 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
		},
		Pipeline: PipelineConfig{
			HistoryTurns:         10,
			ProactiveProbability: 0.20,
			DefaultToolTimeout:   Duration(10 * time.Second),
		},
		Completion: CompletionConfig{
			Provider: "openai",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path and merges it over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Pipeline.ProactiveProbability < 0 || c.Pipeline.ProactiveProbability > 1 {
		return fmt.Errorf("pipeline.proactiveProbability %v out of range [0, 1]", c.Pipeline.ProactiveProbability)
	}
	if c.Pipeline.HistoryTurns < 0 {
		return fmt.Errorf("pipeline.historyTurns must not be negative")
	}
	switch c.Completion.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("completion.provider %q not supported", c.Completion.Provider)
	}
	return nil
}
