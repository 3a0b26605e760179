package machineid

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/denisbrodbeck/machineid"

	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

type hardwareMachineID struct{}

func NewHardwareMachineID() outbound.MachineIdentity {
	return &hardwareMachineID{}
}

func (h *hardwareMachineID) ID() (string, error) {
	rawID, err := machineid.ID()
	if err != nil {
		return "", err
	}

	// never expose the raw platform id
	hash := sha256.Sum256([]byte(rawID))
	return hex.EncodeToString(hash[:]), nil
}
