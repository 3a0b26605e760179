package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ajkula/GoLayoutView/config"
	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
	"github.com/gorilla/mux"
)

// Handler gère les requêtes HTTP pour l'API REST
type Handler struct {
	dialogService     inbound.DialogService
	watchService      inbound.WatchService
	recentFileService inbound.RecentFileService
	statsService      inbound.StatsService
	config            *config.Config
	configPath        string
	logger            outbound.Logger
}

// NewHandler crée un nouveau gestionnaire REST
func NewHandler(
	dialogService inbound.DialogService,
	watchService inbound.WatchService,
	recentFileService inbound.RecentFileService,
	statsService inbound.StatsService,
	cfg *config.Config,
	configPath string,
	logger outbound.Logger,
) *Handler {
	return &Handler{
		dialogService:     dialogService,
		watchService:      watchService,
		recentFileService: recentFileService,
		statsService:      statsService,
		config:            cfg,
		configPath:        configPath,
		logger:            logger,
	}
}

// SetupRoutes configure les routes de l'API REST
func (h *Handler) SetupRoutes(router *mux.Router) {
	// Route pour le dialogue de fichiers
	router.HandleFunc("/api/dialog/file", h.openFileDialog).Methods("POST")

	// Routes pour la surveillance de fichier
	router.HandleFunc("/api/watch", h.watchFile).Methods("POST")
	router.HandleFunc("/api/watch", h.unwatchFile).Methods("DELETE")
	router.HandleFunc("/api/watch", h.getWatchStatus).Methods("GET")

	// Routes pour le dernier fichier ouvert
	router.HandleFunc("/api/recent-file", h.getRecentFile).Methods("GET")
	router.HandleFunc("/api/recent-file", h.saveRecentFile).Methods("PUT")

	// Route pour les stats
	router.HandleFunc("/api/stats", h.handleGetStats).Methods("GET")

	// Routes pour les réglages
	router.HandleFunc("/api/settings", h.getSettings).Methods("GET")
	router.HandleFunc("/api/settings", h.updateSettings).Methods("PUT")
	router.HandleFunc("/api/settings/reset", h.resetSettings).Methods("POST")

	// Route pour la santé
	router.HandleFunc("/health", h.healthCheck).Methods("GET")
}

// healthCheck vérifie l'état du service
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// openFileDialog ouvre le sélecteur de fichier natif
func (h *Handler) openFileDialog(w http.ResponseWriter, r *http.Request) {
	path, selected, err := h.dialogService.OpenFileDialog(r.Context())
	if err != nil {
		if errors.Is(err, model.ErrDialogUnavailable) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Convertir en structure simple pour la réponse JSON
	type dialogResponse struct {
		Path     *string `json:"path"`
		Selected bool    `json:"selected"`
	}

	response := dialogResponse{Selected: selected}
	if selected {
		response.Path = &path
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// watchFile démarre la surveillance d'un fichier
func (h *Handler) watchFile(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.watchService.Watch(r.Context(), request.Path); err != nil {
		if errors.Is(err, model.ErrEmptyPath) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "success",
		"path":   request.Path,
	})
}

// unwatchFile arrête la surveillance en cours
func (h *Handler) unwatchFile(w http.ResponseWriter, r *http.Request) {
	h.watchService.Unwatch()

	w.WriteHeader(http.StatusNoContent)
}

// getWatchStatus retourne l'état de la surveillance
func (h *Handler) getWatchStatus(w http.ResponseWriter, r *http.Request) {
	status := h.watchService.Status()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// getRecentFile retourne le dernier fichier ouvert
func (h *Handler) getRecentFile(w http.ResponseWriter, r *http.Request) {
	path, ok, err := h.recentFileService.LastFilePath()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type recentFileResponse struct {
		Path   *string `json:"path"`
		Exists bool    `json:"exists"`
	}

	response := recentFileResponse{Exists: ok}
	if ok {
		response.Path = &path
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// saveRecentFile enregistre le dernier fichier ouvert
func (h *Handler) saveRecentFile(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.recentFileService.SaveLastFilePath(request.Path); err != nil {
		if errors.Is(err, model.ErrEmptyPath) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
