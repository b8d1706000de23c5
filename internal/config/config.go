// Package config loads the optional rsh configuration file.
//
// The file lives at $RSH_CONFIG when that is set, otherwise at
// rsh/config.yaml under the platform user config directory. A missing file
// is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides the config
// file location.
const EnvConfigPath = "RSH_CONFIG"

// Config is the on-disk configuration. Every field is optional.
type Config struct {
	// CargoBin overrides the cargo executable. Empty resolves "cargo"
	// from PATH.
	CargoBin string `yaml:"cargo_bin"`

	// HistoryFile stores prompt history across sessions. Defaults to
	// .rsh_history in the user's home directory.
	HistoryFile string `yaml:"history_file"`

	// NoColor disables styled output.
	NoColor bool `yaml:"no_color"`
}

// DefaultPath returns the config file location for this user.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "rsh", "config.yaml"), nil
}

// DefaultHistoryFile returns the default prompt history location, or ""
// when no home directory can be determined.
func DefaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rsh_history")
}

// Load reads the configuration at path. A missing file yields defaults.
// Unknown keys are rejected so typos surface instead of being ignored.
func Load(path string) (Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HistoryFile == "" {
		c.HistoryFile = DefaultHistoryFile()
	}
}
