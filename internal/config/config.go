// Package config loads the demo tool's YAML configuration. Everything in
// the file is optional; zero values fall back to registry defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects backends and tunes compilation for the demo tool.
type Config struct {
	// Compiler and Runtime name registered backends. Empty picks the
	// highest-priority registered backend.
	Compiler string `yaml:"compiler"`
	Runtime  string `yaml:"runtime"`

	// Device is an adapter selection argument passed to the runtime's
	// device selector, for example "device=1".
	Device string `yaml:"device"`

	// IncludePaths are extra directories searched for kernel includes.
	IncludePaths []string `yaml:"include_paths"`

	// AuxHeader overrides the auxiliary header filename.
	AuxHeader string `yaml:"aux_header"`

	// LogLevel is one of debug, info, warn, error. Empty disables logging.
	LogLevel string `yaml:"log_level"`
}

// Load reads a config file. A missing path returns the zero config.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
}

// SelectorArgs returns the device selection arguments for the runtime.
func (c Config) SelectorArgs() []string {
	if c.Device == "" {
		return nil
	}
	return []string{c.Device}
}
