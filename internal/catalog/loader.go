package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/synapsemed/synapse/internal/models"
	"github.com/synapsemed/synapse/internal/parser"
	"github.com/synapsemed/synapse/internal/storage"
)

//go:embed seed/*.yaml
var seedFS embed.FS

// Embedded returns a provider over the sample collections compiled into the binary.
func Embedded() *storage.FS {
	sub, err := fs.Sub(seedFS, "seed")
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded seed: %v", err))
	}
	return storage.FromFS(sub)
}

// FileName returns the source file holding the collection of kind.
func FileName(kind models.Kind) string {
	return kind.Collection() + ".yaml"
}

// Load reads and parses all four collections from store.
// A missing collection file yields an empty collection.
func Load(store storage.Provider) (*Snapshot, error) {
	metas, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("catalog: load: %w", err)
	}
	sums := make(map[string]string, len(metas))
	for _, m := range metas {
		sums[m.Name] = m.Checksum
	}

	cols := make([]Collection, 0, len(models.Kinds()))
	for _, kind := range models.Kinds() {
		name := FileName(kind)
		data, err := store.Read(name)
		if errors.Is(err, fs.ErrNotExist) {
			cols = append(cols, Collection{Kind: kind})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: load %s: %w", name, err)
		}
		recs, err := parser.ParseCollection(kind, data)
		if err != nil {
			return nil, fmt.Errorf("catalog: load %s: %w", name, err)
		}
		cols = append(cols, Collection{Kind: kind, Records: recs, Checksum: sums[name]})
	}
	return NewSnapshot(cols...), nil
}
