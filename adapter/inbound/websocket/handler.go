package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/inbound"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
	"github.com/gorilla/websocket"
)

// Handler gère les connexions WebSocket
type Handler struct {
	notificationService inbound.NotificationService
	tokenService        inbound.TokenService
	logger              outbound.Logger
	upgrader            websocket.Upgrader
	connections         map[string]*websocketConnection
	mu                  sync.RWMutex
}

// websocketConnection représente une connexion WebSocket active
type websocketConnection struct {
	conn           *websocket.Conn
	subscriptionID string

	// gorilla permits a single concurrent writer per connection
	writeMu sync.Mutex
}

func (c *websocketConnection) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// NewHandler crée un nouveau gestionnaire WebSocket.
// A nil tokenService disables the token check on the upgrade.
func NewHandler(
	notificationService inbound.NotificationService,
	tokenService inbound.TokenService,
	logger outbound.Logger,
) *Handler {
	return &Handler{
		notificationService: notificationService,
		tokenService:        tokenService,
		logger:              logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// the server only binds loopback, the frontend origin varies per platform
				return true
			},
		},
		connections: make(map[string]*websocketConnection),
	}
}

// HandleConnection gère une connexion WebSocket entrante.
// The token travels in the query string because browser WebSocket
// clients cannot set an Authorization header.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if h.tokenService != nil {
		token := r.URL.Query().Get("token")
		if token == "" {
			h.logger.Warn("WebSocket connection without token", "remote", r.RemoteAddr)
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		if _, err := h.tokenService.ValidateToken(token); err != nil {
			h.logger.Warn("WebSocket token rejected", "remote", r.RemoteAddr, "error", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	// Établir la connexion WebSocket
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Error upgrading to WebSocket", "error", err)
		return
	}

	// S'abonner aux notifications de changement de fichier
	subID, notifications := h.notificationService.Subscribe()

	wsConn := &websocketConnection{
		conn:           conn,
		subscriptionID: subID,
	}

	// Enregistrer la connexion
	h.mu.Lock()
	h.connections[subID] = wsConn
	h.mu.Unlock()

	// Envoyer un message de confirmation
	wsConn.writeJSON(map[string]string{
		"type":           "connected",
		"subscriptionId": subID,
	})

	go h.pushNotifications(wsConn, notifications)
	go h.handleWebSocketSession(wsConn)
}

// pushNotifications pousse les notifications vers le client
func (h *Handler) pushNotifications(wsConn *websocketConnection, notifications <-chan model.Notification) {
	for notification := range notifications {
		if err := wsConn.writeJSON(notification); err != nil {
			h.logger.Warn("Failed to push notification",
				"subscriptionID", wsConn.subscriptionID, "error", err)
			wsConn.conn.Close()
			return
		}
	}

	// channel closed, the subscription is gone
	wsConn.conn.Close()
}

// handleWebSocketSession gère une session WebSocket active
func (h *Handler) handleWebSocketSession(wsConn *websocketConnection) {
	defer func() {
		// Se désabonner des notifications
		if err := h.notificationService.Unsubscribe(wsConn.subscriptionID); err != nil {
			h.logger.Debug("Unsubscribe on close", "subscriptionID", wsConn.subscriptionID, "error", err)
		}

		// Fermer la connexion
		wsConn.conn.Close()

		// Supprimer la connexion de la liste
		h.mu.Lock()
		delete(h.connections, wsConn.subscriptionID)
		h.mu.Unlock()
	}()

	// Boucle de lecture des messages du client
	for {
		messageType, data, err := wsConn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket closed", "subscriptionID", wsConn.subscriptionID, "error", err)
			}
			break
		}

		// Traiter les messages du client
		h.handleClientMessage(wsConn, messageType, data)
	}
}

// handleClientMessage traite les messages envoyés par le client WebSocket
func (h *Handler) handleClientMessage(wsConn *websocketConnection, messageType int, data []byte) {
	// Uniquement pour les messages texte
	if messageType != websocket.TextMessage {
		return
	}

	// Parser le message JSON
	var message map[string]any
	if err := json.Unmarshal(data, &message); err != nil {
		h.logger.Debug("Error parsing client message", "error", err)
		return
	}

	// Récupérer le type de message
	msgType, ok := message["type"].(string)
	if !ok {
		return
	}

	switch msgType {
	case "ping":
		// Répondre à un ping
		wsConn.writeJSON(map[string]string{
			"type": "pong",
		})
	}
}

// ConnectionCount retourne le nombre de connexions actives
func (h *Handler) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Cleanup ferme proprement toutes les connexions WebSocket
func (h *Handler) Cleanup() {
	h.logger.Info("Cleaning up WebSocket handler resources")

	h.mu.Lock()
	defer h.mu.Unlock()

	for subID, wsConn := range h.connections {
		// Envoyer un message de fermeture
		wsConn.writeMu.Lock()
		wsConn.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Server shutting down"))
		wsConn.writeMu.Unlock()

		// Fermer la connexion
		wsConn.conn.Close()

		// Se désabonner
		h.notificationService.Unsubscribe(subID)

		delete(h.connections, subID)
	}
}
