package utils

import (
	"os"
	"strings"
)

const (
	StorageProviderLocal = "local"
)

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderLocal
	}
	return provider
}

// StorageProvider persists uploaded documents. Paths are relative to the
// provider's root; files are write-once and never replaced in place. Remove
// exists only to undo a write whose upload was rejected afterwards.
type StorageProvider interface {
	WriteBytes(relPath string, data []byte) error
	Remove(relPath string) error
	AbsolutePath(relPath string) string
}

func NewStorageProvider() StorageProvider {
	// Local filesystem is the only wired provider; the switch mirrors the
	// env-driven selection used for the document archive.
	switch GetStorageProvider() {
	default:
		return NewLocalStorage(BaseSgkDir())
	}
}
