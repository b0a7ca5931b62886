package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/synapsemed/synapse/internal/catalog"
	"github.com/synapsemed/synapse/internal/index"
	"github.com/synapsemed/synapse/internal/metrics"
	"github.com/synapsemed/synapse/internal/models"
	"github.com/synapsemed/synapse/internal/search"
	"github.com/synapsemed/synapse/internal/storage"
)

// library ties the configured catalog source to the repository search reads.
// apply is only called from the startup path and the watcher goroutine.
type library struct {
	logger  *slog.Logger
	store   storage.Provider
	dir     string
	current *catalog.Snapshot

	mem *catalog.Memory
	db  *index.DB
}

func openLibrary(ctx context.Context, cfg CatalogConfig, logger *slog.Logger) (*library, error) {
	lib := &library{logger: logger}

	if cfg.Embedded() {
		lib.store = catalog.Embedded()
	} else {
		fsStore, err := storage.NewFS(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("init catalog storage: %w", err)
		}
		lib.store = fsStore
		lib.dir = fsStore.Root()
	}

	snap, err := catalog.Load(lib.store)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	switch cfg.Driver {
	case DriverSQLite:
		db, err := index.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		lib.db = db
	default:
		lib.mem = catalog.NewMemory(catalog.NewSnapshot())
	}

	if _, err := lib.apply(ctx, snap); err != nil {
		lib.Close()
		return nil, err
	}
	return lib, nil
}

// repository returns the store search reads from.
func (l *library) repository() catalog.Repository {
	if l.db != nil {
		return l.db
	}
	return l.mem
}

func (l *library) engine() *search.Engine {
	return search.NewEngine(l.repository())
}

// apply installs next and returns the kinds whose contents changed.
func (l *library) apply(ctx context.Context, next *catalog.Snapshot) ([]models.Kind, error) {
	var changed []models.Kind
	if l.db != nil {
		kinds, err := index.Sync(ctx, l.db, next, l.logger)
		if err != nil {
			return nil, fmt.Errorf("sync index: %w", err)
		}
		changed = kinds
	} else {
		changed = catalog.Changed(l.current, next)
		l.mem.Replace(next)
	}
	l.current = next

	for _, c := range next.Collections() {
		metrics.SetCatalogSize(c.Kind.Collection(), len(c.Records))
	}
	l.logger.Info("catalog installed",
		slog.Int("records", next.Len()),
		slog.Int("changed_collections", len(changed)))
	return changed, nil
}

// Close releases the SQLite handle, if any.
func (l *library) Close() {
	if l.db != nil {
		if err := l.db.Close(); err != nil {
			l.logger.Warn("close index", slog.String("error", err.Error()))
		}
	}
}
