package config

import (
	"flag"
	"strings"
	"time"
)

// Flags holds command-line overrides. Each subcommand registers its own set.
type Flags struct {
	Config        string
	Debug         bool
	Assets        string
	Catalog       string
	Border        int
	DecodeTimeout time.Duration
	SaveConfig    bool
}

// RegisterFlags adds the shared configuration flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Assets, "assets", "", "Comma-separated asset directories (highest priority last)")
	fs.StringVar(&f.Catalog, "catalog", "", "Path to design catalog file")
	fs.IntVar(&f.Border, "border", -1, "Texture outline width in pixels")
	fs.DurationVar(&f.DecodeTimeout, "decode-timeout", 0, "Image decode timeout")
	fs.BoolVar(&f.SaveConfig, "save-config", false, "Save the effective config to the user config dir")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Assets != "" {
		for _, dir := range strings.Split(f.Assets, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				cfg.Assets.Roots = append(cfg.Assets.Roots, dir)
			}
		}
	}
	if f.Catalog != "" {
		cfg.Catalog = f.Catalog
	}
	if f.Border >= 0 {
		cfg.Texture.BorderWidth = f.Border
	}
	if f.DecodeTimeout > 0 {
		cfg.Texture.DecodeTimeout = f.DecodeTimeout
	}
}
