package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Checksum returns the full hex sha256 of data.
func Sha256Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ShortChecksum returns the first 8 hex chars of the sha256, used in file names.
func ShortChecksum(data []byte) string {
	return Sha256Checksum(data)[:8]
}
