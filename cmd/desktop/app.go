package main

import (
	"context"
	"net/http"
	"time"

	"github.com/ajkula/GoLayoutView/adapter/outbound/dialog"
	"github.com/ajkula/GoLayoutView/adapter/outbound/notify"
	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

// App exposes the backend services to the frontend through Wails bindings.
type App struct {
	ctx context.Context

	dialogService     inbound.DialogService
	watchService      inbound.WatchService
	recentFileService inbound.RecentFileService
	tokenService      inbound.TokenService

	wailsDialog *dialog.WailsDialog
	sink        *notify.WailsSink
	server      *http.Server
	serverURL   string
	logger      outbound.Logger
}

func NewApp(
	dialogService inbound.DialogService,
	watchService inbound.WatchService,
	recentFileService inbound.RecentFileService,
	tokenService inbound.TokenService,
	wailsDialog *dialog.WailsDialog,
	sink *notify.WailsSink,
	server *http.Server,
	serverURL string,
	logger outbound.Logger,
) *App {
	return &App{
		dialogService:     dialogService,
		watchService:      watchService,
		recentFileService: recentFileService,
		tokenService:      tokenService,
		wailsDialog:       wailsDialog,
		sink:              sink,
		server:            server,
		serverURL:         serverURL,
		logger:            logger,
	}
}

// startup receives the runtime context once the window exists. The native
// dialog needs it, and the notification bridge starts pumping from here.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.wailsDialog.SetContext(ctx)
	a.sink.Start(ctx)
}

func (a *App) shutdown(ctx context.Context) {
	a.sink.Stop()
	if a.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("Embedded server shutdown failed", "error", err)
		}
	}
}

func (a *App) beforeClose(ctx context.Context) bool {
	return false
}

// OpenFileDialog shows the native layout picker.
// A nil result means the user cancelled.
func (a *App) OpenFileDialog() (*string, error) {
	path, ok, err := a.dialogService.OpenFileDialog(a.ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &path, nil
}

// WatchFile starts watching path, replacing any previous watch
func (a *App) WatchFile(path string) error {
	return a.watchService.Watch(a.ctx, path)
}

// UnwatchFile stops the active watch, if any
func (a *App) UnwatchFile() {
	a.watchService.Unwatch()
}

func (a *App) GetWatchStatus() model.WatchStatus {
	return a.watchService.Status()
}

// GetLastFilePath returns the persisted marker, nil when none exists yet
func (a *App) GetLastFilePath() (*string, error) {
	path, ok, err := a.recentFileService.LastFilePath()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &path, nil
}

// SaveLastFilePath persists path as the last opened file
func (a *App) SaveLastFilePath(path string) error {
	return a.recentFileService.SaveLastFilePath(path)
}

// GetAPIToken issues a token the frontend uses for the WebSocket feed
func (a *App) GetAPIToken() (string, error) {
	return a.tokenService.IssueToken(time.Now())
}

func (a *App) GetServerURL() string {
	return a.serverURL
}

func (a *App) GetVersion() string {
	return version
}
