package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Faultbox/tilecraft/internal/tiling"
	"github.com/Faultbox/tilecraft/pkg/surface"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test lookup table defaults
	assert.Equal(t, surface.Floor, cfg.Surfaces["Cube017"])
	assert.Equal(t, surface.Curtain, cfg.Surfaces["G-__556050"])
	assert.Equal(t, tiling.Repeat{X: 5, Y: 5}, cfg.Repeats[surface.Curtain])

	// Test unit and texture defaults
	assert.Equal(t, float32(3.28084), cfg.Units.MetersToFeet)
	assert.Equal(t, 10, cfg.Texture.BorderWidth)
	assert.Equal(t, 10*time.Second, cfg.Texture.DecodeTimeout)

	// Test logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)

	assert.NoError(t, cfg.Validate(), "default config should be valid")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	configPath := writeConfig(t, `
surfaces:
  Plane002: floor
  Cube099: wall

repeats:
  wall: {x: 3, y: 1.5}

units:
  meters_to_feet: 3.3

texture:
  border_width: 4
  decode_timeout: 2s

assets:
  roots: ["/srv/designs"]
  watch: true

catalog: "catalog.yaml"

logging:
  level: "debug"
  log_file: "tilecraft.log"
`)

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	// Tables are replaced, not merged
	assert.Len(t, cfg.Surfaces, 2)
	assert.Equal(t, surface.Floor, cfg.Surfaces["Plane002"])
	assert.NotContains(t, cfg.Surfaces, "Cube017")
	assert.Equal(t, map[surface.Type]tiling.Repeat{surface.Wall: {X: 3, Y: 1.5}}, cfg.Repeats)

	assert.Equal(t, float32(3.3), cfg.Units.MetersToFeet)
	assert.Equal(t, 4, cfg.Texture.BorderWidth)
	assert.Equal(t, 2*time.Second, cfg.Texture.DecodeTimeout)
	assert.Equal(t, []string{"/srv/designs"}, cfg.Assets.Roots)
	assert.True(t, cfg.Assets.Watch)
	assert.Equal(t, "catalog.yaml", cfg.Catalog)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "tilecraft.log", cfg.Logging.LogFile)
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	configPath := writeConfig(t, "texture:\n  border_width: 2\n")

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))
	assert.Equal(t, surface.Wall, cfg.Surfaces["Cube022"], "default surfaces when file has none")
	assert.Equal(t, 10*time.Second, cfg.Texture.DecodeTimeout)
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := writeConfig(t, `
surfaces:
  Cube017: lamp
  invalid syntax here
`)

	cfg := Default()
	assert.Error(t, loadFromFile(cfg, configPath))
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	assert.Error(t, loadFromFile(cfg, "/nonexistent/path/config.yaml"))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Surfaces["Cube500"] = surface.Unknown
	cfg.Repeats[surface.Wall] = tiling.Repeat{X: 0, Y: 1}
	cfg.Units.MetersToFeet = 0
	cfg.Texture.BorderWidth = -1
	cfg.Texture.DecodeTimeout = -time.Second
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6, "%v", err)
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir), "ConfigDir should be absolute, got %s", dir)
}

func TestFindConfigFile(t *testing.T) {
	// Isolate from any real user config
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	assert.Empty(t, findConfigFile(), "no config file exists yet")

	require.NoError(t, os.WriteFile("tilecraft.yaml", []byte("texture:\n  border_width: 3\n"), 0644))
	assert.NotEmpty(t, findConfigFile(), "tilecraft.yaml in current directory")
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "assets flag",
			args: []string{"-assets", "a, b,"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"public", "a", "b"}, cfg.Assets.Roots)
			},
		},
		{
			name: "border zero disables outline",
			args: []string{"-border", "0"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Zero(t, cfg.Texture.BorderWidth)
			},
		},
		{
			name: "unset border keeps default",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10, cfg.Texture.BorderWidth)
			},
		},
		{
			name: "catalog and timeout flags",
			args: []string{"-catalog", "designs.yaml", "-decode-timeout", "250ms"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "designs.yaml", cfg.Catalog)
				assert.Equal(t, 250*time.Millisecond, cfg.Texture.DecodeTimeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f := RegisterFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			cfg := Default()
			f.apply(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := writeConfig(t, `
texture:
  border_width: 6
  decode_timeout: 3s
`)

	// Set flag to override config file
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", configPath, "-border", "20"}))

	cfg, err := Load(f)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Texture.BorderWidth, "border from flag, not file")
	assert.Equal(t, 3*time.Second, cfg.Texture.DecodeTimeout, "timeout from file")
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := writeConfig(t, "units:\n  meters_to_feet: -1\n")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", configPath}))

	_, err := Load(f)
	assert.Error(t, err)
}

func TestLoadSaveConfigFlag(t *testing.T) {
	// Point every OS's config dir into a temp dir
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("HOME", home)
	t.Setenv("APPDATA", filepath.Join(home, "appdata"))
	t.Chdir(t.TempDir())

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-border", "4", "-save-config"}))
	_, err := Load(f)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(ConfigDir(), "config.yaml"))

	// The saved file is picked up on the next load without flags.
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Texture.BorderWidth)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Texture.BorderWidth = 7
	cfg.Repeats[surface.Sofa] = tiling.Repeat{X: 2, Y: 3}
	require.NoError(t, cfg.SaveTo(path))

	loaded := Default()
	require.NoError(t, loadFromFile(loaded, path))
	assert.Equal(t, 7, loaded.Texture.BorderWidth)
	assert.Equal(t, tiling.Repeat{X: 2, Y: 3}, loaded.Repeats[surface.Sofa])
	assert.Equal(t, 10*time.Second, loaded.Texture.DecodeTimeout)
}

func TestBuilders(t *testing.T) {
	cfg := Default()

	assert.Equal(t, surface.Sofa, cfg.SurfaceTable().Resolve("Cube001"))
	assert.Equal(t, tiling.Repeat{X: 2, Y: 2}, cfg.RepeatTable().Default(surface.Wall))
	opts := cfg.TextureOptions()
	assert.Equal(t, 10, opts.BorderWidth)
	assert.Equal(t, 10*time.Second, opts.DecodeTimeout)

	c, err := cfg.LoadCatalog()
	require.NoError(t, err)
	assert.Len(t, c.ForType(surface.Floor), 3, "built-in catalog")

	cfg.Catalog = "/nonexistent/catalog.yaml"
	_, err = cfg.LoadCatalog()
	assert.Error(t, err)
}
