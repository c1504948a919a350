package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// CapabilityVersion tags the current capability URL scheme.
const CapabilityVersion = "1"

// NewCapabilityKey returns a fresh 64-hex-char capability key.
func NewCapabilityKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashCapabilityKey hashes the raw capability key using the same strategy as
// webhook creation.
func HashCapabilityKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
