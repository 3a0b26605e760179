package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under the platform config dir
const AppName = "GoLayoutView"

// Config holds the global backend configuration
type Config struct {
	// General configuration
	General struct {
		// DataDir is the application data directory
		DataDir string `yaml:"dataDir"`

		// Development enables development mode
		Development bool `yaml:"development"`
	} `yaml:"general"`

	// HTTP server configuration
	HTTP struct {
		// Enabled enables the HTTP server
		Enabled bool `yaml:"enabled"`

		// Address to bind the HTTP server
		Address string `yaml:"address"`

		// Port to bind the HTTP server
		Port int `yaml:"port"`

		// CORS configuration
		CORS struct {
			// Enabled enables CORS
			Enabled bool `yaml:"enabled"`

			// AllowedOrigins is the list of allowed origins
			AllowedOrigins []string `yaml:"allowedOrigins"`
		} `yaml:"cors"`

		// Auth configuration for the local API
		Auth struct {
			// Enabled requires a bearer token on /api routes
			Enabled bool `yaml:"enabled"`

			// TokenTTLMinutes is the token validity duration
			TokenTTLMinutes int `yaml:"tokenTTLMinutes"`
		} `yaml:"auth"`
	} `yaml:"http"`

	// Watcher configuration
	Watcher struct {
		// DebounceMS is the debounce window for change events, in milliseconds
		DebounceMS int `yaml:"debounceMs"`

		// EventBuffer is the size of the per-watch event channel
		EventBuffer int `yaml:"eventBuffer"`
	} `yaml:"watcher"`

	// Dialog configuration
	Dialog struct {
		// ExtraFilters are appended to the built-in layout filter group
		ExtraFilters []FilterConfig `yaml:"extraFilters"`
	} `yaml:"dialog"`

	// Recent file marker configuration
	Recent struct {
		// Filename of the last-file marker inside DataDir
		Filename string `yaml:"filename"`
	} `yaml:"recent"`

	Logging struct {
		Level       string `yaml:"level"` // "ERROR", "WARN", "INFO", "DEBUG"
		ChannelSize int    `yaml:"channelSize"`
		Format      string `yaml:"format"`
		Output      string `yaml:"output"`
		FilePath    string `yaml:"filePath"`
	} `yaml:"logging"`
}

// FilterConfig describes one additional dialog filter group
type FilterConfig struct {
	// Name is the label shown in the dialog
	Name string `yaml:"name"`

	// Extensions without the leading dot
	Extensions []string `yaml:"extensions"`
}

// DefaultDataDir resolves the platform config location for the app
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		// last resort, relative to the working directory
		return "./data"
	}
	return filepath.Join(base, AppName)
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	c := &Config{}

	// General configuration
	c.General.DataDir = DefaultDataDir()
	c.General.Development = false

	// HTTP server configuration
	c.HTTP.Enabled = true
	c.HTTP.Address = "127.0.0.1"
	c.HTTP.Port = 7420
	c.HTTP.CORS.Enabled = true
	c.HTTP.CORS.AllowedOrigins = []string{"*"}
	c.HTTP.Auth.Enabled = true
	c.HTTP.Auth.TokenTTLMinutes = 720

	// Watcher configuration
	c.Watcher.DebounceMS = 500
	c.Watcher.EventBuffer = 16

	// Dialog configuration
	c.Dialog.ExtraFilters = nil

	// Recent file marker configuration
	c.Recent.Filename = "last_file.txt"

	// Logging configuration defaults
	c.Logging.Level = "INFO"
	c.Logging.ChannelSize = 1000
	c.Logging.Format = "json"
	c.Logging.Output = "stdout"
	c.Logging.FilePath = ""

	return c
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Load the default configuration
	config := DefaultConfig()

	// Decode the YAML file
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Complete relative paths
	if !filepath.IsAbs(config.General.DataDir) {
		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		config.General.DataDir = filepath.Join(dir, config.General.DataDir)
	}

	// Validate the configuration
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, path string) error {
	// Encode the configuration to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Create parent directory if necessary
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	// Check the log level
	logLevel := strings.ToLower(config.Logging.Level)
	if logLevel != "debug" && logLevel != "info" && logLevel != "warn" && logLevel != "error" {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	// check ports
	if config.HTTP.Enabled && (config.HTTP.Port < 1 || config.HTTP.Port > 65535) {
		return fmt.Errorf("invalid HTTP port: %d", config.HTTP.Port)
	}

	if config.HTTP.Auth.Enabled && config.HTTP.Auth.TokenTTLMinutes < 1 {
		return fmt.Errorf("invalid token TTL: %d", config.HTTP.Auth.TokenTTLMinutes)
	}

	// Check the watcher settings
	if config.Watcher.DebounceMS < 1 {
		return fmt.Errorf("invalid watcher debounce: %d", config.Watcher.DebounceMS)
	}

	if config.Watcher.EventBuffer < 1 {
		return fmt.Errorf("invalid watcher event buffer: %d", config.Watcher.EventBuffer)
	}

	// Check the marker filename
	if config.Recent.Filename == "" || strings.ContainsRune(config.Recent.Filename, os.PathSeparator) {
		return fmt.Errorf("invalid recent file name: %q", config.Recent.Filename)
	}

	// Check dialog filter groups
	for _, filter := range config.Dialog.ExtraFilters {
		if filter.Name == "" {
			return fmt.Errorf("dialog filter with empty name")
		}
		if len(filter.Extensions) == 0 {
			return fmt.Errorf("dialog filter %q has no extensions", filter.Name)
		}
	}

	return nil
}
