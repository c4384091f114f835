// Package config loads and holds the deobfuscator configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// --- Nested Configuration Structs ---

// DeadCodeConfig gates literal-branch elimination.
type DeadCodeConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// ControlFlowConfig gates dispatch-loop restoration.
type ControlFlowConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// StringsConfig gates decoder-call replacement.
type StringsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Placeholder is the literal written at replaced decoder call sites.
	// Empty means the built-in default.
	Placeholder string `yaml:"placeholder,omitempty" mapstructure:"placeholder,omitempty"`
}

// ExpressionsConfig gates constant arithmetic folding.
type ExpressionsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// RenameConfig gates identifier normalization.
type RenameConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// DeobfuscationConfig holds the per-pass settings. Self-defense removal has
// no entry here because it always runs.
type DeobfuscationConfig struct {
	DeadCode    DeadCodeConfig    `yaml:"dead_code" mapstructure:"dead_code"`
	ControlFlow ControlFlowConfig `yaml:"control_flow" mapstructure:"control_flow"`
	Strings     StringsConfig     `yaml:"strings" mapstructure:"strings"`
	Expressions ExpressionsConfig `yaml:"expressions" mapstructure:"expressions"`
	Rename      RenameConfig      `yaml:"rename" mapstructure:"rename"`
}

// LoggingConfig controls the zerolog sink.
type LoggingConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`             // debug, info, warn, error
	FilePath   string `yaml:"file_path,omitempty" mapstructure:"file_path,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"` // rotation threshold
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	Console    bool   `yaml:"console" mapstructure:"console"`
}

// Config holds all settings for the deobfuscator.
type Config struct {
	// Input/Output settings
	SourceDirectory string `yaml:"source_directory" mapstructure:"source_directory"`
	TargetDirectory string `yaml:"target_directory" mapstructure:"target_directory"`

	// General behavior
	Silent       bool `yaml:"silent" mapstructure:"silent"`                 // Suppress informational messages
	AbortOnError bool `yaml:"abort_on_error" mapstructure:"abort_on_error"` // Stop directory processing on the first error
	DebugMode    bool `yaml:"debug_mode" mapstructure:"debug_mode"`         // Enable verbose debug logging

	// File handling
	JsExtensions []string `yaml:"js_extensions" mapstructure:"js_extensions"` // File extensions treated as JavaScript
	SkipPaths    []string `yaml:"skip" mapstructure:"skip"`                   // Glob patterns to ignore entirely

	Deobfuscation DeobfuscationConfig `yaml:"deobfuscation" mapstructure:"deobfuscation"`
	Logging       LoggingConfig       `yaml:"logging" mapstructure:"logging"`
}

var (
	// Testing controls whether informational output is suppressed in tests.
	Testing bool
)

// PrintInfo prints informational output unless Testing is set.
func PrintInfo(format string, args ...interface{}) {
	if !Testing {
		fmt.Printf(format, args...)
	}
}

// DefaultConfig returns a configuration with default settings. Every pass
// is enabled out of the box.
func DefaultConfig() *Config {
	return &Config{
		Silent:       false,
		AbortOnError: false,
		DebugMode:    false,
		JsExtensions: []string{"js", "mjs", "cjs"},
		SkipPaths:    []string{"node_modules/*", "*.git*", "*.min.map"},

		Deobfuscation: DeobfuscationConfig{
			DeadCode:    DeadCodeConfig{Enabled: true},
			ControlFlow: ControlFlowConfig{Enabled: true},
			Strings:     StringsConfig{Enabled: true},
			Expressions: ExpressionsConfig{Enabled: true},
			Rename:      RenameConfig{Enabled: true},
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Console:    true,
		},
	}
}

// LoadConfig reads configuration from file and environment variables on top
// of the defaults and returns a filled Config struct.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		configPath = "config.yaml" // Default path
	}

	if _, err := os.Stat(configPath); err == nil {
		yamlFile, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
			return nil, fmt.Errorf("error unmarshalling config file %s: %w", configPath, err)
		}
		if !cfg.Silent {
			PrintInfo("Info: Loaded configuration from %s\n", configPath)
		}
	} else if os.IsNotExist(err) {
		if configPath != "config.yaml" {
			return nil, fmt.Errorf("specified config file not found: %s", configPath)
		}
		PrintInfo("Info: Configuration file 'config.yaml' not found, using default settings.\n")
	} else {
		return nil, fmt.Errorf("error checking config file %s: %w", configPath, err)
	}

	applyEnvOverrides(cfg)

	if cfg.TargetDirectory != "" {
		cfg.TargetDirectory = filepath.Clean(cfg.TargetDirectory)
	}
	return cfg, nil
}

// SaveConfig writes the default configuration to a file, creating parent
// directories as needed.
func SaveConfig(configPath string) error {
	cfg := DefaultConfig()
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshalling default config: %w", err)
	}
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating directory for config file %s: %w", configPath, err)
	}
	if err := os.WriteFile(configPath, yamlData, 0o644); err != nil {
		return fmt.Errorf("error writing config file %s: %w", configPath, err)
	}
	PrintInfo("Info: Saved default configuration to %s\n", configPath)
	return nil
}

// applyEnvOverrides layers JSMIX_* environment variables over the loaded
// configuration. Only the operational knobs are exposed this way; the pass
// toggles come from the file or the CLI flags.
func applyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("JSMIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"silent", "debug_mode", "abort_on_error", "target_directory", "log_level"} {
		_ = v.BindEnv(key)
	}

	if v.IsSet("silent") {
		cfg.Silent = v.GetBool("silent")
	}
	if v.IsSet("debug_mode") {
		cfg.DebugMode = v.GetBool("debug_mode")
	}
	if v.IsSet("abort_on_error") {
		cfg.AbortOnError = v.GetBool("abort_on_error")
	}
	if v.IsSet("target_directory") {
		cfg.TargetDirectory = v.GetString("target_directory")
	}
	if v.IsSet("log_level") {
		cfg.Logging.Level = v.GetString("log_level")
	}
}
