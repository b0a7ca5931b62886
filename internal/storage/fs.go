package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/synapsemed/synapse/internal/checksum"
	"github.com/synapsemed/synapse/internal/models"
)

const collectionExt = ".yaml"

// FS implements Provider over an fs.FS, either a directory on disk or an
// embedded filesystem.
type FS struct {
	fsys fs.FS
	root string // absolute directory, empty for embedded sources
}

// NewFS creates a provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{fsys: os.DirFS(abs), root: abs}, nil
}

// FromFS wraps an existing filesystem, typically one built with go:embed.
func FromFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Root returns the absolute directory backing the provider, or "" when embedded.
func (f *FS) Root() string {
	return f.root
}

// validName rejects anything that is not a plain file name at the root.
func validName(name string) error {
	if !fs.ValidPath(name) || strings.Contains(name, "/") || name == "." {
		return fmt.Errorf("storage: invalid name: %s", name)
	}
	return nil
}

// List returns metadata for every collection file, sorted by name.
func (f *FS) List() ([]models.CollectionMetadata, error) {
	entries, err := fs.ReadDir(f.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []models.CollectionMetadata
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), collectionExt) {
			continue
		}
		data, err := fs.ReadFile(f.fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		out = append(out, models.CollectionMetadata{
			Name:     e.Name(),
			Checksum: checksum.Sum(data),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Read returns the raw bytes of a collection file.
func (f *FS) Read(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}
