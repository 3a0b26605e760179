package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/gorilla/mux"

	"github.com/ajkula/GoLayoutView/adapter/inbound/rest"
	"github.com/ajkula/GoLayoutView/adapter/inbound/websocket"
	"github.com/ajkula/GoLayoutView/adapter/outbound/crypto"
	"github.com/ajkula/GoLayoutView/adapter/outbound/dialog"
	"github.com/ajkula/GoLayoutView/adapter/outbound/filewatcher"
	"github.com/ajkula/GoLayoutView/adapter/outbound/logging"
	"github.com/ajkula/GoLayoutView/adapter/outbound/machineid"
	"github.com/ajkula/GoLayoutView/adapter/outbound/notify"
	"github.com/ajkula/GoLayoutView/adapter/outbound/storage"
	"github.com/ajkula/GoLayoutView/config"
	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/service"
)

const version = "1.0.0"

func main() {
	// Handle command-line arguments
	var configPath string
	var generateConfig bool
	var showVersion bool
	var portOverride int

	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.BoolVar(&generateConfig, "generate-config", false, "Generate default configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.IntVar(&portOverride, "port", 0, "Override the configured HTTP port")
	flag.Parse()

	// Display version information
	if showVersion {
		fmt.Println("GoLayoutView Version " + version)
		os.Exit(0)
	}

	// Generate a default configuration file
	if generateConfig {
		cfg := config.DefaultConfig()
		if err := config.SaveConfig(cfg, configPath); err != nil {
			fmt.Printf("Error generating config file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration file generated at: %s\n", configPath)
		os.Exit(0)
	}

	// Load the configuration, falling back to defaults when no file exists yet.
	// The settings API writes the file on first save.
	var cfg *config.Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = config.DefaultConfig()
	} else {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config file: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if portOverride > 0 {
		cfg.HTTP.Port = portOverride
	}

	logger := logging.NewSlogAdapter(cfg)
	defer logger.Shutdown()

	logger.Info("Starting GoLayoutView backend", "version", version, "dataDir", cfg.General.DataDir)

	if err := os.MkdirAll(cfg.General.DataDir, 0755); err != nil {
		logger.Warn("Unable to create data directory", "path", cfg.General.DataDir, "error", err)
	}

	// Dedicated pprof server for development builds
	if cfg.General.Development {
		go func() {
			logger.Info("Starting pprof server on :6060")
			logger.Error("pprof server stopped", "error", http.ListenAndServe("localhost:6060", nil))
		}()
	}

	// The token secret is bound to the machine so webview sessions
	// survive a backend restart
	secrets := crypto.NewTokenSecretService()
	var secret [32]byte
	if id, err := machineid.NewHardwareMachineID().ID(); err == nil {
		secret = secrets.DeriveSecret(id)
	} else {
		logger.Warn("Machine identity unavailable, tokens will not survive a restart", "error", err)
		secret = crypto.RandomSecret()
	}

	// Outbound adapters
	registry := notify.NewRegistry()
	watcherFactory := filewatcher.NewFSWatcherFactory(
		time.Duration(cfg.Watcher.DebounceMS)*time.Millisecond,
		cfg.Watcher.EventBuffer,
	)
	lastFileRepo := storage.NewLastFileRepository(cfg.General.DataDir, cfg.Recent.Filename, logger)

	// The standalone backend has no window to host a native dialog
	fileDialog := dialog.NewHeadlessDialog()

	// Domain services
	statsService := service.NewStatsService(registry)
	watchService := service.NewWatchService(watcherFactory, registry, statsService, logger)
	recentFileService := service.NewRecentFileService(lastFileRepo, logger)
	dialogService := service.NewDialogService(fileDialog, cfg, logger)
	notificationService := service.NewNotificationService(registry, logger)
	tokenService := service.NewTokenService(secret, cfg.HTTP.Auth.TokenTTLMinutes, logger)

	var wsHandler *websocket.Handler

	// Cleanup from most dependent to least dependent
	defer func() {
		logger.Info("Cleaning up services...")
		if wsHandler != nil {
			wsHandler.Cleanup()
		}
		watchService.Close()
		registry.Close()
		logger.Info("All services cleaned up")
	}()

	var server *http.Server
	if cfg.HTTP.Enabled {
		router := mux.NewRouter()

		if cfg.General.Development {
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path)
					next.ServeHTTP(w, r)
				})
			})
		}

		authMiddleware := rest.NewAuthMiddleware(tokenService, logger, cfg.HTTP.Auth.Enabled)
		router.Use(authMiddleware.Middleware)

		restHandler := rest.NewHandler(
			dialogService,
			watchService,
			recentFileService,
			statsService,
			cfg,
			configPath,
			logger,
		)
		restHandler.SetupRoutes(router)

		// WebSocket clients authenticate through a query token instead
		// of headers, the handler validates it before upgrading
		var wsTokens inbound.TokenService
		if cfg.HTTP.Auth.Enabled {
			wsTokens = tokenService
		}
		wsHandler = websocket.NewHandler(notificationService, wsTokens, logger)
		router.HandleFunc("/ws", wsHandler.HandleConnection)

		// Preflight requests never match the method-bound routes,
		// so CORS wraps the router itself
		var handler http.Handler = router
		if cfg.HTTP.CORS.Enabled {
			handler = rest.NewCORSMiddleware(cfg.HTTP.CORS.AllowedOrigins, logger).Middleware(router)
		}

		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)
		server = &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "address", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "error", err)
			}
		}()

		// Print one token on stdout so local clients can authenticate
		if cfg.HTTP.Auth.Enabled {
			token, err := tokenService.IssueToken(time.Now())
			if err != nil {
				logger.Error("Unable to issue the startup token", "error", err)
			} else {
				fmt.Printf("Local API token: %s\n", token)
			}
		}
	} else {
		logger.Warn("HTTP API is disabled, the backend is only reachable through an embedding shell")
	}

	// Handle system signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received shutdown signal", "signal", sig.String())

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
	}
}
