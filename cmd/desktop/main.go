package main

import (
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	golayoutview "github.com/ajkula/GoLayoutView"
	"github.com/ajkula/GoLayoutView/adapter/inbound/rest"
	wsadapter "github.com/ajkula/GoLayoutView/adapter/inbound/websocket"
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
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", filepath.Join(config.DefaultDataDir(), "config.yaml"), "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Println("GoLayoutView Desktop Version " + version)
		os.Exit(0)
	}

	// The shell runs on defaults until the settings API writes a file
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

	logger := logging.NewSlogAdapter(cfg)
	defer logger.Shutdown()

	logger.Info("Starting GoLayoutView desktop", "version", version, "dataDir", cfg.General.DataDir)

	frontendFS, err := fs.Sub(golayoutview.EmbeddedFrontendFS, "frontend/dist")
	if err != nil {
		logger.Error("Embedded frontend unavailable", "error", err)
		logger.Shutdown()
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.General.DataDir, 0755); err != nil {
		logger.Warn("Unable to create data directory", "path", cfg.General.DataDir, "error", err)
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

	// Outbound adapters, the dialog goes through the Wails runtime here
	registry := notify.NewRegistry()
	watcherFactory := filewatcher.NewFSWatcherFactory(
		time.Duration(cfg.Watcher.DebounceMS)*time.Millisecond,
		cfg.Watcher.EventBuffer,
	)
	lastFileRepo := storage.NewLastFileRepository(cfg.General.DataDir, cfg.Recent.Filename, logger)
	wailsDialog := dialog.NewWailsDialog()

	// Domain services
	statsService := service.NewStatsService(registry)
	watchService := service.NewWatchService(watcherFactory, registry, statsService, logger)
	recentFileService := service.NewRecentFileService(lastFileRepo, logger)
	dialogService := service.NewDialogService(wailsDialog, cfg, logger)
	notificationService := service.NewNotificationService(registry, logger)
	tokenService := service.NewTokenService(secret, cfg.HTTP.Auth.TokenTTLMinutes, logger)

	var wsHandler *wsadapter.Handler

	// Cleanup from most dependent to least dependent. The embedded HTTP
	// server is shut down by the app shutdown hook before this runs.
	defer func() {
		logger.Info("Cleaning up services...")
		if wsHandler != nil {
			wsHandler.Cleanup()
		}
		watchService.Close()
		registry.Close()
		logger.Info("All services cleaned up")
	}()

	// The embedded HTTP server feeds the frontend WebSocket and exposes
	// the same API as the standalone backend
	var server *http.Server
	serverURL := ""
	if cfg.HTTP.Enabled {
		router := mux.NewRouter()

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

		var wsTokens inbound.TokenService
		if cfg.HTTP.Auth.Enabled {
			wsTokens = tokenService
		}
		wsHandler = wsadapter.NewHandler(notificationService, wsTokens, logger)
		router.HandleFunc("/ws", wsHandler.HandleConnection)

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
		serverURL = "http://" + addr

		go func() {
			logger.Info("Embedded HTTP server listening", "address", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Embedded HTTP server error", "error", err)
			}
		}()
	}

	sink := notify.NewWailsSink(notificationService, logger)

	app := NewApp(
		dialogService,
		watchService,
		recentFileService,
		tokenService,
		wailsDialog,
		sink,
		server,
		serverURL,
		logger,
	)

	if err := wails.Run(&options.App{
		Title:  "GoLayoutView",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: frontendFS,
		},
		OnStartup:     app.startup,
		OnShutdown:    app.shutdown,
		OnBeforeClose: app.beforeClose,
		Bind: []interface{}{
			app,
		},
	}); err != nil {
		logger.Error("Wails run failed", "error", err)
	}
}
