// Package config loads the keyflux demo configuration.
//
// Configuration comes from a YAML file, overlaid by KEYFLUX_* environment
// variables. A missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the demo application settings.
type Config struct {
	// Backend selects the host adapter. Only "term" is wired into the
	// demo binary; glfw and ebiten hosts embed the library directly.
	Backend string `yaml:"backend"`

	// Bindings is the path to the action bindings document. Empty means
	// no bindings file; actions can still be added programmatically.
	Bindings string `yaml:"bindings"`

	// Script is an optional Lua script run against the tracker at
	// startup, e.g. a scripted replay.
	Script string `yaml:"script"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:  "term",
		LogLevel: "info",
	}
}

// Load reads the config file at path, falling back to defaults when path is
// empty or the file does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("config: reading %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays KEYFLUX_* environment variables. Empty values are
// treated as set, matching LookupEnv semantics.
func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"KEYFLUX_BACKEND", &c.Backend},
		{"KEYFLUX_BINDINGS", &c.Bindings},
		{"KEYFLUX_SCRIPT", &c.Script},
		{"KEYFLUX_LOG_LEVEL", &c.LogLevel},
	}
	for _, o := range overrides {
		if val, ok := os.LookupEnv(o.env); ok {
			*o.target = val
		}
	}
}
