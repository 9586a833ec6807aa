package storage

import (
	"os"
	"path/filepath"

	"smartdocs/internal/models"
)

// Store resolves and reads raw document bytes.
type Store interface {
	Read(path string) ([]byte, error)
	Exists(path string) bool
	Resolve(path string) string
}

// FS reads documents from the local filesystem, resolving relative paths
// against a fixed document root.
type FS struct {
	root string
}

func NewFS(root string) *FS {
	return &FS{root: root}
}

func (f *FS) Resolve(path string) string {
	if filepath.IsAbs(path) || f.root == "" {
		return path
	}
	return filepath.Join(f.root, path)
}

// Read loads the raw bytes of a document. A missing file comes back as a
// NotFoundError carrying the original path.
func (f *FS) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(f.Resolve(path))
	if err != nil {
		return nil, &models.NotFoundError{Path: path, Err: err}
	}
	return data, nil
}

func (f *FS) Exists(path string) bool {
	_, err := os.Stat(f.Resolve(path))
	return err == nil
}
