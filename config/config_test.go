package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Address)
	assert.Equal(t, 7420, cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.Auth.Enabled)
	assert.Equal(t, 500, cfg.Watcher.DebounceMS)
	assert.Equal(t, 16, cfg.Watcher.EventBuffer)
	assert.Equal(t, "last_file.txt", cfg.Recent.Filename)
	assert.Equal(t, "INFO", cfg.Logging.Level)

	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
http:
  port: 9000
logging:
  level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// overridden values
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)

	// untouched defaults survive the overlay
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Address)
	assert.Equal(t, 500, cfg.Watcher.DebounceMS)
	assert.Equal(t, "last_file.txt", cfg.Recent.Filename)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [not a map"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ResolvesRelativeDataDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
general:
  dataDir: appdata
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.General.DataDir))
	assert.Equal(t, filepath.Join(dir, "appdata"), cfg.General.DataDir)
}

func TestSaveConfig_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.General.DataDir = filepath.Join(dir, "data")
	cfg.HTTP.Port = 9999
	cfg.Dialog.ExtraFilters = []FilterConfig{
		{Name: "OASIS Files", Extensions: []string{"oas"}},
	}

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "VERBOSE" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid port when HTTP enabled",
			mutate:  func(c *Config) { c.HTTP.Port = 0 },
			wantErr: "invalid HTTP port",
		},
		{
			name: "invalid port tolerated when HTTP disabled",
			mutate: func(c *Config) {
				c.HTTP.Enabled = false
				c.HTTP.Port = 0
			},
		},
		{
			name:    "invalid token TTL when auth enabled",
			mutate:  func(c *Config) { c.HTTP.Auth.TokenTTLMinutes = 0 },
			wantErr: "invalid token TTL",
		},
		{
			name:    "invalid debounce",
			mutate:  func(c *Config) { c.Watcher.DebounceMS = 0 },
			wantErr: "invalid watcher debounce",
		},
		{
			name:    "invalid event buffer",
			mutate:  func(c *Config) { c.Watcher.EventBuffer = 0 },
			wantErr: "invalid watcher event buffer",
		},
		{
			name:    "empty marker filename",
			mutate:  func(c *Config) { c.Recent.Filename = "" },
			wantErr: "invalid recent file name",
		},
		{
			name: "marker filename with separator",
			mutate: func(c *Config) {
				c.Recent.Filename = filepath.Join("sub", "last.txt")
			},
			wantErr: "invalid recent file name",
		},
		{
			name: "dialog filter without name",
			mutate: func(c *Config) {
				c.Dialog.ExtraFilters = []FilterConfig{{Extensions: []string{"oas"}}}
			},
			wantErr: "dialog filter with empty name",
		},
		{
			name: "dialog filter without extensions",
			mutate: func(c *Config) {
				c.Dialog.ExtraFilters = []FilterConfig{{Name: "OASIS Files"}}
			},
			wantErr: "has no extensions",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := ValidateConfig(cfg)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestToPublic_HidesTokenTTL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTP.Auth.TokenTTLMinutes = 123

	public := cfg.ToPublic()
	assert.Equal(t, cfg.HTTP.Port, public.HTTP.Port)
	assert.Equal(t, cfg.HTTP.Auth.Enabled, public.HTTP.Auth.Enabled)

	// merging back never touches the TTL
	public.HTTP.Port = 8080
	cfg.MergeFromPublic(public)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 123, cfg.HTTP.Auth.TokenTTLMinutes)
}

func TestMergeFromPublic_CopiesSlices(t *testing.T) {
	cfg := DefaultConfig()

	public := cfg.ToPublic()
	public.HTTP.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	public.Dialog.ExtraFilters = []FilterConfig{
		{Name: "OASIS Files", Extensions: []string{"oas"}},
	}
	cfg.MergeFromPublic(public)

	require.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.CORS.AllowedOrigins)
	require.Len(t, cfg.Dialog.ExtraFilters, 1)

	// later mutations of the public view must not leak into the config
	public.HTTP.CORS.AllowedOrigins[0] = "http://evil.example"
	assert.Equal(t, "http://localhost:5173", cfg.HTTP.CORS.AllowedOrigins[0])
}

func TestMergeFromPublic_NilIsNoop(t *testing.T) {
	cfg := DefaultConfig()
	before := *cfg

	cfg.MergeFromPublic(nil)
	assert.Equal(t, before, *cfg)
}
