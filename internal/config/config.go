// Package config loads themer's YAML configuration.
//
// Lookup order: an explicit path (the --config flag), $THEMER_CONFIG, then
// ./themer.yaml. When no file exists the defaults apply. Environment
// overrides are applied last and the result is validated.
package config

import "github.com/roach88/themer/internal/engine"

// Environment variables read by Load.
const (
	EnvConfig   = "THEMER_CONFIG"
	EnvDatabase = "THEMER_DATABASE"
	EnvLogLevel = "THEMER_LOG_LEVEL"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "themer.yaml"

// Config is the top-level configuration.
type Config struct {
	Database      string          `yaml:"database" validate:"required"`
	Stylesheets   string          `yaml:"stylesheets" validate:"required"`
	DefaultTheme  string          `yaml:"default_theme" validate:"required,theme_name"`
	BundleLocator string          `yaml:"bundle" validate:"omitempty,bundle_path"`
	Log           LogConfig       `yaml:"log"`
	Scheduler     SchedulerConfig `yaml:"scheduler"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// SchedulerConfig tunes update scheduling.
type SchedulerConfig struct {
	MaxFanout int `yaml:"max_fanout" validate:"gte=1"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database:     "themer.db",
		Stylesheets:  "sheets",
		DefaultTheme: "default",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Scheduler: SchedulerConfig{
			MaxFanout: engine.DefaultMaxFanout,
		},
	}
}
