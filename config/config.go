package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corekit/appcore/app"
	"github.com/corekit/appcore/applog"
	"github.com/corekit/appcore/errors"
)

// Config is the runtime's file-backed configuration. All fields are
// optional; zero values fall back to defaults.
type Config struct {
	Window  WindowConfig `yaml:"window"`
	Backend string       `yaml:"backend"`
	Log     LogConfig    `yaml:"log"`
	// StallMillis is the render stall threshold in milliseconds.
	StallMillis float64 `yaml:"stall_ms"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "appcore",
		},
		Log:         LogConfig{Level: "info"},
		StallMillis: 16.67,
	}
}

// Load reads and validates a YAML configuration file. Missing fields
// take their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read config")
	}
	return Parse(data)
}

// Parse decodes YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Key("window").
			Detail("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height).
			Build()
	}
	if c.StallMillis <= 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Key("stall_ms").
			Detail("stall threshold must be positive, got %v", c.StallMillis).
			Build()
	}
	if c.Log.Level != "" {
		if _, err := applog.ParseLevel(c.Log.Level); err != nil {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Key("log.level").
				Cause(err).
				Detail("unknown log level %q", c.Log.Level).
				Build()
		}
	}
	return nil
}

// StallThreshold returns the configured stall threshold as a duration.
func (c *Config) StallThreshold() time.Duration {
	return time.Duration(c.StallMillis * float64(time.Millisecond))
}

// Builder returns an app.Builder carrying the window and backend
// settings.
func (c *Config) Builder() *app.Builder {
	return app.New(c.Window.Width, c.Window.Height, c.Window.Title).
		Backend(c.Backend)
}

// Apply installs the logger and stall settings process-wide.
func (c *Config) Apply() error {
	if c.Log.Level != "" {
		lvl, err := applog.ParseLevel(c.Log.Level)
		if err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
		}
		applog.SetLevel(lvl)
	}
	if err := applog.SetFile(c.Log.File); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log file")
	}
	app.SetStallThreshold(c.StallThreshold())
	return nil
}
