package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultSgkMaxFileSizeBytes int64 = 10 * 1024 * 1024

// BaseSgkDir is the root directory for persisted SGK PDFs.
//
// Set via env:
// - BASE_SGK_DIR (default ./uploads/sgk)
func BaseSgkDir() string {
	dir := strings.TrimSpace(os.Getenv("BASE_SGK_DIR"))
	if dir == "" {
		return "./uploads/sgk"
	}
	return dir
}

// SgkMaxFileSizeBytes is the upload cap, overridable via SGK_MAX_FILE_SIZE_BYTES.
func SgkMaxFileSizeBytes() int64 {
	v := strings.TrimSpace(os.Getenv("SGK_MAX_FILE_SIZE_BYTES"))
	if v == "" {
		return defaultSgkMaxFileSizeBytes
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return defaultSgkMaxFileSizeBytes
	}
	return n
}

type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

func (s *LocalStorage) AbsolutePath(relPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(relPath))
}

// WriteBytes persists data under the storage root. O_EXCL keeps files
// write-once: re-uploads must use a fresh timestamped name.
func (s *LocalStorage) WriteBytes(relPath string, data []byte) error {
	full := s.AbsolutePath(relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *LocalStorage) Remove(relPath string) error {
	return os.Remove(s.AbsolutePath(relPath))
}
