package rest

import (
	"net/http"
	"strings"

	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

// CORSMiddleware answers cross-origin requests from the embedded frontend.
// Webview origins differ per platform, so the allow list comes from config.
type CORSMiddleware struct {
	allowedOrigins []string
	logger         outbound.Logger
}

func NewCORSMiddleware(allowedOrigins []string, logger outbound.Logger) *CORSMiddleware {
	return &CORSMiddleware{
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Middleware adds CORS headers for allowed origins and short-circuits
// preflight requests
func (m *CORSMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if m.originAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			} else {
				m.logger.Debug("CORS origin rejected", "origin", origin)
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *CORSMiddleware) originAllowed(origin string) bool {
	for _, allowed := range m.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
