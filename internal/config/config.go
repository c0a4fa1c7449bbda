// Package config provides configuration loading for code-metrics.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (CODE_METRICS_*)
//  2. Project config (.code-metrics/config.yml or an explicit --config file)
//  3. Built-in defaults
package config

import "github.com/mvp-joe/code-metrics/internal/parsers"

// Output formats accepted by output.format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Config represents the complete code-metrics configuration.
type Config struct {
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
}

// SourceConfig controls which files module resolution considers.
type SourceConfig struct {
	Extension string   `yaml:"extension" mapstructure:"extension"` // source file extension, with leading dot
	Ignore    []string `yaml:"ignore" mapstructure:"ignore"`       // glob patterns matched against file names in module directories
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "table", "json" or "yaml"
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // logrus level name
}

// WatchConfig controls analyze --watch.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before re-running
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Extension: parsers.RustExtension,
			Ignore:    []string{},
		},
		Output: OutputConfig{
			Format: FormatTable,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
	}
}
