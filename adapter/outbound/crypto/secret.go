package crypto

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

type TokenSecretService struct{}

func NewTokenSecretService() outbound.SecretDeriver {
	return &TokenSecretService{}
}

// DeriveSecret expands a machine identifier into HMAC key material.
// The same machine always derives the same secret, so restarting the
// backend does not invalidate a webview session mid-flight.
func (c *TokenSecretService) DeriveSecret(machineID string) [32]byte {
	// derivate 32 bytes key from machine ID
	hash := sha256.Sum256([]byte(machineID + "golayoutview-token-key"))
	return hash
}

// RandomSecret returns ephemeral key material for hosts where no
// machine identifier is available. Tokens die with the process.
func RandomSecret() [32]byte {
	var secret [32]byte
	rand.Read(secret[:])
	return secret
}
