// Package storage persists uploaded post attachments on disk behind an
// opaque-path contract: callers get back a generated name and never choose
// where bytes land.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore writes attachments under a single media root.
type DiskStore struct {
	root string
}

// NewDiskStore creates the media root if needed and returns a store bound to it.
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("media root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

// Save stores the reader's bytes under a generated opaque name, keeping the
// original extension so content type can be inferred on serving.
func (s *DiskStore) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	return name, nil
}

// Path resolves a stored name to an absolute file path, rejecting names that
// would escape the media root.
func (s *DiskStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid attachment name %q", name)
	}
	return filepath.Join(s.root, name), nil
}

// Open retrieves a stored attachment by its opaque name.
func (s *DiskStore) Open(name string) (*os.File, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}
