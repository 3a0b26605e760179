package rest

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ajkula/GoLayoutView/config"
)

type SettingsResponse struct {
	Config   *config.PublicConfig `json:"config"`
	FilePath string               `json:"filePath"`
	Message  string               `json:"message,omitempty"`
}

type SettingsUpdateRequest struct {
	Config *config.PublicConfig `json:"config"`
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Getting current settings")

	publicConfig := h.config.ToPublic()

	response := SettingsResponse{
		Config:   publicConfig,
		FilePath: h.getConfigFilePath(),
		Message:  "Settings retrieved successfully",
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode settings response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Updating settings")

	var req SettingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode settings request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Config == nil {
		http.Error(w, "Config is required", http.StatusBadRequest)
		return
	}

	newConfig := &config.Config{}
	*newConfig = *h.config
	newConfig.MergeFromPublic(req.Config)

	// Validate the configuration
	if err := h.validateConfigUpdate(newConfig); err != nil {
		h.logger.Error("Configuration validation failed", "error", err)
		http.Error(w, fmt.Sprintf("Invalid configuration: %v", err), http.StatusBadRequest)
		return
	}

	// Determine if restart is needed
	restartNeeded := h.requiresRestart(newConfig)

	configPath := h.getConfigFilePath()
	if err := config.SaveConfig(newConfig, configPath); err != nil {
		h.logger.Error("Failed to save configuration", "error", err)
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	// Update runtime configuration (no restart)
	if !restartNeeded {
		h.updateRuntimeConfig(newConfig)
	}

	h.logger.Info("Settings updated successfully",
		"restart_needed", restartNeeded,
		"config_path", configPath)

	publicConfig := newConfig.ToPublic()
	response := SettingsResponse{
		Config:   publicConfig,
		FilePath: configPath,
		Message:  "Settings updated successfully",
	}

	// Add restart notice if needed
	if restartNeeded {
		response.Message = "Settings updated successfully. Server restart required for some changes to take effect."
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode settings response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

func (h *Handler) resetSettings(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Resetting settings to defaults")

	defaultConfig := config.DefaultConfig()

	configPath := h.getConfigFilePath()
	if err := config.SaveConfig(defaultConfig, configPath); err != nil {
		h.logger.Error("Failed to save default configuration", "error", err)
		http.Error(w, "Failed to reset configuration", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Settings reset to defaults", "config_path", configPath)

	publicResponse := defaultConfig.ToPublic()
	response := SettingsResponse{
		Config:   publicResponse,
		FilePath: configPath,
		Message:  "Settings reset to defaults. Server restart recommended.",
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode reset response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// validates the configuration update
func (h *Handler) validateConfigUpdate(cfg *config.Config) error {
	// Use existing validation from config package
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	// Check for port conflicts with currently running services
	if cfg.HTTP.Enabled && cfg.HTTP.Port != h.config.HTTP.Port {
		if h.isPortInUse(cfg.HTTP.Port) {
			return fmt.Errorf("HTTP port %d is already in use", cfg.HTTP.Port)
		}
	}

	// Validate the data directory when it moves
	if cfg.General.DataDir != h.config.General.DataDir {
		if err := h.validateDataDir(cfg.General.DataDir); err != nil {
			return fmt.Errorf("data directory validation failed: %v", err)
		}
	}

	return nil
}

// determines if configuration changes require a server restart
func (h *Handler) requiresRestart(newConfig *config.Config) bool {
	// Changes that require restart
	if newConfig.HTTP.Enabled != h.config.HTTP.Enabled ||
		newConfig.HTTP.Port != h.config.HTTP.Port ||
		newConfig.HTTP.Address != h.config.HTTP.Address ||
		newConfig.HTTP.Auth.Enabled != h.config.HTTP.Auth.Enabled ||
		newConfig.HTTP.CORS.Enabled != h.config.HTTP.CORS.Enabled ||
		newConfig.Watcher.DebounceMS != h.config.Watcher.DebounceMS ||
		newConfig.Watcher.EventBuffer != h.config.Watcher.EventBuffer ||
		newConfig.Recent.Filename != h.config.Recent.Filename ||
		newConfig.General.DataDir != h.config.General.DataDir ||
		newConfig.Logging.Output != h.config.Logging.Output ||
		newConfig.Logging.Format != h.config.Logging.Format ||
		newConfig.Logging.FilePath != h.config.Logging.FilePath ||
		newConfig.Logging.ChannelSize != h.config.Logging.ChannelSize {
		return true
	}

	return false
}

// updates configuration that can be changed at runtime
func (h *Handler) updateRuntimeConfig(newConfig *config.Config) {
	// Update log level
	if newConfig.Logging.Level != h.config.Logging.Level {
		h.logger.UpdateLevel(newConfig.Logging.Level)
	}

	// Services share the config instance, an in-place copy reaches them all
	*h.config = *newConfig

	h.logger.Info("Configuration updated in handler")
}

func (h *Handler) getConfigFilePath() string {
	if h.configPath != "" {
		return h.configPath
	}

	// Fallback to default
	return "./config.yaml"
}

func (h *Handler) isPortInUse(port int) bool {
	address := fmt.Sprintf(":%d", port)

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return true
	}

	listener.Close()
	return false
}

func (h *Handler) validateDataDir(path string) error {
	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %v", err)
	}

	// Check if path exists
	info, err := os.Stat(absPath)
	if err == nil {
		// Path exists, check if it's a directory
		if !info.IsDir() {
			return fmt.Errorf("data path exists but is not a directory: %s", absPath)
		}

		// Check if directory is writable
		testFile := filepath.Join(absPath, ".write_test")
		f, err := os.Create(testFile)
		if err != nil {
			return fmt.Errorf("data directory is not writable: %s", absPath)
		}
		f.Close()
		os.Remove(testFile)

		return nil
	}

	// Path does not exist yet, check the parent is usable
	parent := filepath.Dir(absPath)
	parentInfo, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("parent directory does not exist: %s", parent)
	}
	if !parentInfo.IsDir() {
		return fmt.Errorf("parent path is not a directory: %s", parent)
	}

	return nil
}
