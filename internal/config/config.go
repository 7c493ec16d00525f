// Package config handles tilecraft configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/tilecraft/internal/catalog"
	"github.com/Faultbox/tilecraft/internal/texture"
	"github.com/Faultbox/tilecraft/internal/tiling"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

// Config holds all tilecraft settings.
type Config struct {
	Surfaces map[string]surface.Type        `yaml:"surfaces"` // Mesh name -> surface type
	Repeats  map[surface.Type]tiling.Repeat `yaml:"repeats"`  // Fixed repeats for non-floor types
	Units    UnitsConfig                    `yaml:"units"`
	Texture  TextureConfig                  `yaml:"texture"`
	Assets   AssetsConfig                   `yaml:"assets"`
	Catalog  string                         `yaml:"catalog"` // Design catalog file; empty uses the built-in one
	Logging  LoggingConfig                  `yaml:"logging"`
}

// UnitsConfig holds the model to display unit conversion.
type UnitsConfig struct {
	MetersToFeet float32 `yaml:"meters_to_feet"`
}

// TextureConfig holds texture synthesis settings.
type TextureConfig struct {
	BorderWidth   int           `yaml:"border_width"`   // Outline width in pixels, 0 disables it
	DecodeTimeout time.Duration `yaml:"decode_timeout"` // 0 waits forever
}

// AssetsConfig holds design image locations.
type AssetsConfig struct {
	Roots []string `yaml:"roots"` // Searched last to first
	Watch bool     `yaml:"watch"` // Reload images changed on disk
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Surfaces: surface.DefaultNames(),
		Repeats:  tiling.DefaultRepeats(),
		Units: UnitsConfig{
			MetersToFeet: tiling.MetersToFeet,
		},
		Texture: TextureConfig{
			BorderWidth:   10,
			DecodeTimeout: 10 * time.Second,
		},
		Assets: AssetsConfig{
			Roots: []string{"public"},
			Watch: false,
		},
		Catalog: "",
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs error
	for name, t := range c.Surfaces {
		if name == "" {
			errs = multierr.Append(errs, fmt.Errorf("surfaces: empty mesh name"))
		}
		if !t.Known() {
			errs = multierr.Append(errs, fmt.Errorf("surfaces: %s: unknown type", name))
		}
	}
	for t, r := range c.Repeats {
		if !t.Known() {
			errs = multierr.Append(errs, fmt.Errorf("repeats: unknown type %s", t))
		}
		if r.X <= 0 || r.Y <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("repeats: %s: %s is not positive", t, r))
		}
	}
	if c.Units.MetersToFeet <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("units: meters_to_feet must be positive, got %g", c.Units.MetersToFeet))
	}
	if c.Texture.BorderWidth < 0 {
		errs = multierr.Append(errs, fmt.Errorf("texture: negative border width %d", c.Texture.BorderWidth))
	}
	if c.Texture.DecodeTimeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("texture: negative decode timeout %s", c.Texture.DecodeTimeout))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = multierr.Append(errs, fmt.Errorf("logging: unknown level %q", c.Logging.Level))
	}
	return errs
}

// SurfaceTable returns the mesh name lookup.
func (c *Config) SurfaceTable() surface.Table {
	return surface.NewTable(c.Surfaces)
}

// RepeatTable returns the fixed repeat lookup.
func (c *Config) RepeatTable() tiling.RepeatTable {
	return tiling.NewRepeatTable(c.Repeats)
}

// TextureOptions returns synthesizer options with a black outline.
func (c *Config) TextureOptions() texture.Options {
	opts := texture.DefaultOptions()
	opts.BorderWidth = c.Texture.BorderWidth
	opts.DecodeTimeout = c.Texture.DecodeTimeout
	return opts
}

// LoadCatalog reads the configured catalog file, or returns the built-in one.
func (c *Config) LoadCatalog() (catalog.Catalog, error) {
	if c.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(c.Catalog)
}
