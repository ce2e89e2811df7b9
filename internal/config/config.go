package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// LoomDir is the name of the per-repository loom directory
const LoomDir = ".loom"

// Config represents the complete loom configuration (v2 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Project   ProjectConfig   `json:"project" mapstructure:"project"`
	Templates TemplatesConfig `json:"templates" mapstructure:"templates"`
	Ledger    LedgerConfig    `json:"ledger" mapstructure:"ledger"`
	Export    ExportConfig    `json:"export" mapstructure:"export"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// ProjectConfig identifies the generating project; its name and version are
// stamped into every scaffold header
type ProjectConfig struct {
	Name    string `json:"name" mapstructure:"name"`
	Version string `json:"version" mapstructure:"version"`
}

// TemplatesConfig contains template loading configuration
type TemplatesConfig struct {
	// Dir is the templates directory, relative to the repo root
	Dir string `json:"dir" mapstructure:"dir"`
}

// LedgerConfig contains generation ledger configuration
type LedgerConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// HistoryLimit caps the number of runs returned by `loom history`
	HistoryLimit int `json:"historyLimit" mapstructure:"historyLimit"`
}

// ExportConfig contains artifact export configuration
type ExportConfig struct {
	// Dir is where export archives are written, relative to the repo root
	Dir string `json:"dir" mapstructure:"dir"`
	// CompressionLevel selects the zstd level: fastest, default, better, best
	CompressionLevel string `json:"compressionLevel" mapstructure:"compressionLevel"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 2,
		Project: ProjectConfig{
			Name:    "",
			Version: "0.1.0",
		},
		Templates: TemplatesConfig{
			Dir: ".loom/templates",
		},
		Ledger: LedgerConfig{
			Enabled:      true,
			HistoryLimit: 20,
		},
		Export: ExportConfig{
			Dir:              ".loom/export",
			CompressionLevel: "default",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .loom/config.json
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("version", 2)
	v.SetDefault("project.version", "0.1.0")
	v.SetDefault("templates.dir", ".loom/templates")
	v.SetDefault("ledger.enabled", true)
	v.SetDefault("ledger.historyLimit", 20)
	v.SetDefault("export.dir", ".loom/export")
	v.SetDefault("export.compressionLevel", "default")
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, LoomDir))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .loom/config.json
func (c *Config) Save(repoRoot string) error {
	configPath := filepath.Join(repoRoot, LoomDir, "config.json")

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 2 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Project.Name == "" {
		return &ConfigError{Field: "project.name", Message: "project name is required (stamped into scaffold headers)"}
	}
	if c.Project.Version == "" {
		return &ConfigError{Field: "project.version", Message: "project version is required"}
	}
	if c.Templates.Dir == "" {
		return &ConfigError{Field: "templates.dir", Message: "templates directory is required"}
	}
	switch c.Export.CompressionLevel {
	case "fastest", "default", "better", "best":
	default:
		return &ConfigError{Field: "export.compressionLevel", Message: "must be one of fastest, default, better, best"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
