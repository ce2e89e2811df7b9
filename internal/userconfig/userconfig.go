// Package userconfig reads the per-user loom configuration at
// ~/.loom/loom.toml. It supplies defaults that are not per-repository:
// the author stamped into starter manifests and the initial project version
// used by `loom init`.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the filename of the global user configuration
const ConfigFile = "loom.toml"

// UserConfig represents the global user configuration stored in ~/.loom/loom.toml
type UserConfig struct {
	// Author is recorded in starter manifests created by `loom init`
	Author string `toml:"author,omitempty"`

	// DefaultVersion seeds project.version for newly initialized repos
	DefaultVersion string `toml:"default_version,omitempty"`

	// LogFormat overrides the logging format for all repos ("human" or "json")
	LogFormat string `toml:"log_format,omitempty"`
}

// Default returns the user config applied when no file exists
func Default() *UserConfig {
	return &UserConfig{
		DefaultVersion: "0.1.0",
	}
}

// Dir returns the global loom directory (~/.loom), creating nothing.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".loom"), nil
}

// Load reads the user configuration from dir. A missing file is not an
// error: the defaults are returned.
func Load(dir string) (*UserConfig, error) {
	cfg := Default()

	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.DefaultVersion == "" {
		cfg.DefaultVersion = "0.1.0"
	}

	return cfg, nil
}

// Save writes the user configuration to dir, creating it if needed.
func (c *UserConfig) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	f, err := os.Create(filepath.Join(dir, ConfigFile))
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
