package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorageWriteOnce(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	if err := s.WriteBytes("AP-001/202410/file.pdf", []byte("first")); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	got, err := os.ReadFile(s.AbsolutePath("AP-001/202410/file.pdf"))
	if err != nil || string(got) != "first" {
		t.Fatalf("read back failed: %v %q", err, got)
	}

	// Same path again must fail, never overwrite.
	if err := s.WriteBytes("AP-001/202410/file.pdf", []byte("second")); err == nil {
		t.Fatal("second write to the same path must fail")
	}
	got, _ = os.ReadFile(s.AbsolutePath("AP-001/202410/file.pdf"))
	if string(got) != "first" {
		t.Fatalf("original content was clobbered: %q", got)
	}
}

func TestLocalStorageCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root)
	if err := s.WriteBytes("A/B/C/d.pdf", []byte("x")); err != nil {
		t.Fatalf("nested write failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "A", "B", "C", "d.pdf")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}

func TestLocalStorageRemove(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	if err := s.WriteBytes("AP-001/202410/file.pdf", []byte("x")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := s.Remove("AP-001/202410/file.pdf"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := os.Stat(s.AbsolutePath("AP-001/202410/file.pdf")); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err: %v", err)
	}

	// Removing a path that is already gone reports the error; the ingest
	// flow only logs it.
	if err := s.Remove("AP-001/202410/file.pdf"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestSgkMaxFileSizeBytes(t *testing.T) {
	t.Setenv("SGK_MAX_FILE_SIZE_BYTES", "")
	if got := SgkMaxFileSizeBytes(); got != defaultSgkMaxFileSizeBytes {
		t.Fatalf("expected default, got %d", got)
	}
	t.Setenv("SGK_MAX_FILE_SIZE_BYTES", "1048576")
	if got := SgkMaxFileSizeBytes(); got != 1048576 {
		t.Fatalf("expected 1048576, got %d", got)
	}
	t.Setenv("SGK_MAX_FILE_SIZE_BYTES", "-5")
	if got := SgkMaxFileSizeBytes(); got != defaultSgkMaxFileSizeBytes {
		t.Fatalf("bad value must fall back to default, got %d", got)
	}
}
