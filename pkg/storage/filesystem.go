package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore persists uploaded binaries on disk under a base directory.
// Locators returned by Put are paths relative to the base directory, so
// they stay valid when the service is pointed at a different mount.
type BlobStore struct {
	baseDir string
}

// NewBlobStore ensures the base directory exists and returns a handle.
func NewBlobStore(baseDir string) (*BlobStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &BlobStore{baseDir: baseDir}, nil
}

// Put writes data under a per-owner folder and returns the locator.
// The stored filename is randomised; ext should carry the original
// extension (".png", ".pdf", ...) or be empty.
func (s *BlobStore) Put(ownerKey string, ext string, data []byte) (string, error) {
	if ownerKey == "" {
		return "", fmt.Errorf("owner key required")
	}
	locator := filepath.Join(ownerKey, uuid.NewString()+ext)
	path := filepath.Join(s.baseDir, locator)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare owner directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return locator, nil
}

// Exists reports whether the locator resolves to a stored file.
func (s *BlobStore) Exists(locator string) bool {
	if locator == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(s.baseDir, locator))
	return err == nil && !info.IsDir()
}

// ReadAll returns the bytes stored under the locator.
func (s *BlobStore) ReadAll(locator string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, locator))
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", locator, err)
	}
	return data, nil
}

// Delete removes a stored file if present.
func (s *BlobStore) Delete(locator string) error {
	if locator == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.baseDir, locator)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", locator, err)
	}
	return nil
}

// Path exposes the underlying absolute path (useful for debugging).
func (s *BlobStore) Path(locator string) string {
	return filepath.Join(s.baseDir, locator)
}
