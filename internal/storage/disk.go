// Package storage provides the file area backing uploaded images.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore abstracts the flat file area holding thumbnails and avatars.
type FileStore interface {
	// Save writes data to a file named filename inside the store.
	Save(filename string, data []byte) error
	// Remove deletes the named file. Returns nil if the file does not exist.
	Remove(filename string) error
	// Path returns the absolute location of the named file.
	Path(filename string) string
}

// DiskStore is a FileStore over a single local directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a store over it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(filename string, data []byte) error {
	if err := os.WriteFile(s.Path(filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

func (s *DiskStore) Remove(filename string) error {
	err := os.Remove(s.Path(filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file %s: %w", filename, err)
	}
	return nil
}

func (s *DiskStore) Path(filename string) string {
	// Uploaded names are generated server side, but strip any path
	// components anyway so a crafted name cannot escape the directory.
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Dir returns the directory the store serves files from.
func (s *DiskStore) Dir() string {
	return s.dir
}

// GenerateFilename derives a unique stored name from an uploaded one. The
// extension is preserved so static serving picks the right content type, and
// the random suffix keeps concurrent uploads of the same name from colliding.
func GenerateFilename(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	stem = sanitizeStem(stem)
	if stem == "" {
		stem = "upload"
	}

	return stem + "_" + uuid.New().String() + ext
}

func sanitizeStem(stem string) string {
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
