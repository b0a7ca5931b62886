// Package testutil provides shared test helpers for catalogs, databases, and engines.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/synapsemed/synapse/internal/catalog"
	"github.com/synapsemed/synapse/internal/index"
	"github.com/synapsemed/synapse/internal/models"
	"github.com/synapsemed/synapse/internal/search"
	"github.com/synapsemed/synapse/internal/storage"
)

// SampleSnapshot loads the embedded sample catalog.
func SampleSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	snap, err := catalog.Load(catalog.Embedded())
	if err != nil {
		t.Fatal(err)
	}
	return snap
}

// SampleEngine returns a search engine over the embedded sample catalog.
func SampleEngine(t *testing.T) *search.Engine {
	t.Helper()
	return search.NewEngine(catalog.NewMemory(SampleSnapshot(t)))
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "synapse-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// CatalogDir copies the embedded sample collections into a temporary
// directory and returns it with a provider rooted there.
func CatalogDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	seed := catalog.Embedded()
	for _, kind := range models.Kinds() {
		name := catalog.FileName(kind)
		data, err := seed.Read(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, fs.FileMode(0o644)); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}
