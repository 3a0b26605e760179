package inbound

import (
	"time"
)

// TokenService manages access tokens for the local HTTP API
type TokenService interface {
	// IssueToken creates a signed token for a new local session
	IssueToken(issuedAt time.Time) (string, error)

	// ValidateToken verifies a token and returns its session id
	ValidateToken(token string) (string, error)
}
