// Package config loads the engine's tuning knobs from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the engine's release version. Set at build time via
// -ldflags.
var Version = "0.1.0"

// JournalConfig configures the optional sqlite specialization journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// EngineConfig holds dispatch-engine tuning read from genfunc.yaml.
type EngineConfig struct {
	// MaxArgsHint seeds the value MethodTable.MaxArgs reports before
	// any method is inserted. The cache does not read it.
	MaxArgsHint int `yaml:"maxArgsHint"`

	// MatchingMethodsLimit is a limit for MatchingMethods calls. It is
	// parsed and defaulted here only; no caller of MatchingMethods reads
	// it, and a request without a limit is unbounded.
	MatchingMethodsLimit int `yaml:"matchingMethodsLimit"`

	// AmbiguityWarnings toggles whether AddMethod emits a warning via
	// the configured Warner. Off by default in tests.
	AmbiguityWarnings bool `yaml:"ambiguityWarnings"`

	Journal JournalConfig `yaml:"journal"`
}

// Default returns the engine's baseline configuration.
func Default() EngineConfig {
	return EngineConfig{
		MaxArgsHint:          4,
		MatchingMethodsLimit: 100,
		AmbiguityWarnings:    true,
		Journal: JournalConfig{
			Enabled: false,
			Path:    "genfunc-journal.db",
		},
	}
}

// Load reads and parses an EngineConfig from path, filling unset fields
// with Default()'s values.
func Load(path string) (EngineConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
