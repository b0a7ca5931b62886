package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestNewFS_RequiresDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "books.yaml")
	if err := os.WriteFile(file, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFS(file); err == nil {
		t.Fatal("expected error for a file root")
	}
	if _, err := NewFS(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for a missing root")
	}
}

func TestList_OnlyYAMLSorted(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"topics.yaml": "[]",
		"books.yaml":  "[]",
		"notes.txt":   "x",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}

	store, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(metas), metas)
	}
	if metas[0].Name != "books.yaml" || metas[1].Name != "topics.yaml" {
		t.Errorf("order = %s, %s", metas[0].Name, metas[1].Name)
	}
	if metas[0].Checksum == "" {
		t.Error("checksum is empty")
	}
}

func TestRead_RejectsTraversal(t *testing.T) {
	store := FromFS(fstest.MapFS{"books.yaml": {Data: []byte("[]")}})
	for _, name := range []string{"../etc/passwd", "/abs.yaml", "sub/books.yaml", ""} {
		if _, err := store.Read(name); err == nil {
			t.Errorf("Read(%q) should fail", name)
		}
	}
}

func TestRead_Missing(t *testing.T) {
	store := FromFS(fstest.MapFS{})
	_, err := store.Read("drugs.yaml")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}
