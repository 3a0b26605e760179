package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ajkula/GoLayoutView/adapter/outbound/notify"
	"github.com/ajkula/GoLayoutView/domain/model"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
	"github.com/ajkula/GoLayoutView/domain/service"
	"github.com/gorilla/websocket"
)

type testLogger struct{}

func (l *testLogger) Error(msg string, args ...any) {}
func (l *testLogger) Warn(msg string, args ...any)  {}
func (l *testLogger) Info(msg string, args ...any)  {}
func (l *testLogger) Debug(msg string, args ...any) {}
func (l *testLogger) UpdateLevel(logLvl string)     {}
func (l *testLogger) Shutdown()                     {}

type stubTokenService struct {
	valid string
}

func (s *stubTokenService) IssueToken(issuedAt time.Time) (string, error) {
	return s.valid, nil
}

func (s *stubTokenService) ValidateToken(token string) (string, error) {
	if token == s.valid {
		return "session-1", nil
	}
	return "", errors.New("invalid token")
}

type wsTestEnv struct {
	server   *httptest.Server
	handler  *Handler
	registry outbound.NotificationRegistry
}

func newWSTestEnv(t *testing.T, withAuth bool) *wsTestEnv {
	t.Helper()

	logger := &testLogger{}
	registry := notify.NewRegistry()
	notificationService := service.NewNotificationService(registry, logger)

	var handler *Handler
	if withAuth {
		handler = NewHandler(notificationService, &stubTokenService{valid: "good-token"}, logger)
	} else {
		handler = NewHandler(notificationService, nil, logger)
	}

	server := httptest.NewServer(http.HandlerFunc(handler.HandleConnection))

	t.Cleanup(func() {
		handler.Cleanup()
		server.Close()
		registry.Close()
	})

	return &wsTestEnv{server: server, handler: handler, registry: registry}
}

func (e *wsTestEnv) wsURL(query string) string {
	url := "ws" + strings.TrimPrefix(e.server.URL, "http")
	if query != "" {
		url += "?" + query
	}
	return url
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]string {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}

	var frame map[string]string
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("Failed to decode frame %q: %v", data, err)
	}
	return frame
}

func TestHandleConnection_PushesFileChangedFrames(t *testing.T) {
	env := newWSTestEnv(t, false)

	conn, _, err := websocket.DefaultDialer.Dial(env.wsURL(""), nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	frame := readFrame(t, conn)
	if frame["type"] != "connected" {
		t.Fatalf("Expected connected frame first, got %v", frame)
	}
	if frame["subscriptionId"] == "" {
		t.Error("Expected a subscription id in the connected frame")
	}

	env.registry.Publish(model.Notification{Type: model.NotificationFileChanged})

	frame = readFrame(t, conn)
	if frame["type"] != model.NotificationFileChanged {
		t.Fatalf("Expected %q frame, got %v", model.NotificationFileChanged, frame)
	}
	if len(frame) != 1 {
		t.Errorf("Notification frame should carry only a type, got %v", frame)
	}
}

func TestHandleConnection_PingPong(t *testing.T) {
	env := newWSTestEnv(t, false)

	conn, _, err := websocket.DefaultDialer.Dial(env.wsURL(""), nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	readFrame(t, conn) // connected

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("Failed to send ping: %v", err)
	}

	frame := readFrame(t, conn)
	if frame["type"] != "pong" {
		t.Fatalf("Expected pong, got %v", frame)
	}
}

func TestHandleConnection_RejectsMissingToken(t *testing.T) {
	env := newWSTestEnv(t, true)

	_, resp, err := websocket.DefaultDialer.Dial(env.wsURL(""), nil)
	if err == nil {
		t.Fatal("Expected handshake to fail without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %v", resp)
	}
}

func TestHandleConnection_RejectsInvalidToken(t *testing.T) {
	env := newWSTestEnv(t, true)

	_, resp, err := websocket.DefaultDialer.Dial(env.wsURL("token=wrong"), nil)
	if err == nil {
		t.Fatal("Expected handshake to fail with a bad token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %v", resp)
	}
}

func TestHandleConnection_AcceptsValidToken(t *testing.T) {
	env := newWSTestEnv(t, true)

	conn, _, err := websocket.DefaultDialer.Dial(env.wsURL("token=good-token"), nil)
	if err != nil {
		t.Fatalf("Expected handshake to succeed, got %v", err)
	}
	defer conn.Close()

	frame := readFrame(t, conn)
	if frame["type"] != "connected" {
		t.Fatalf("Expected connected frame, got %v", frame)
	}
}

func TestCleanup_ClosesConnections(t *testing.T) {
	env := newWSTestEnv(t, false)

	conn, _, err := websocket.DefaultDialer.Dial(env.wsURL(""), nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	readFrame(t, conn) // connected

	env.handler.Cleanup()

	if count := env.handler.ConnectionCount(); count != 0 {
		t.Errorf("Expected no connections after cleanup, got %d", count)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
