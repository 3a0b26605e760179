package outbound

// defines persistence operations for the last opened file marker
type LastFileRepository interface {
	// Load reads the raw marker content
	Load() (string, error)

	// Save overwrites the marker with the given path, creating
	// the data directory first when needed
	Save(path string) error

	// Exists reports whether a marker is present on disk
	Exists() bool
}

// defines access to a stable identifier of the host machine
type MachineIdentity interface {
	// ID returns the machine identifier
	ID() (string, error)
}

// defines key material derivation for the local API
type SecretDeriver interface {
	// DeriveSecret expands a machine identifier into signing key material
	DeriveSecret(machineID string) [32]byte
}
