package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/synapsemed/synapse/internal/storage"
)

// reloadDelay coalesces bursts of file events (editors often write, rename
// and chmod in quick succession) into a single reload.
const reloadDelay = 200 * time.Millisecond

// ReloadFunc receives every successfully parsed snapshot.
type ReloadFunc func(next *Snapshot)

// Watch observes the catalog directory and reloads all collections from
// store when any .yaml file changes, until ctx is cancelled. A reload that
// fails to parse is logged and skipped; the previous snapshot stays live.
func Watch(ctx context.Context, store storage.Provider, dir string, logger *slog.Logger, onReload ReloadFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("dir", dir))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDelay)
			timerCh = timer.C
			return
		}
		timer.Reset(reloadDelay)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			next, loadErr := Load(store)
			if loadErr != nil {
				logger.Warn("watcher: reload failed", slog.String("error", loadErr.Error()))
				continue
			}
			logger.Info("watcher: catalog reloaded",
				slog.Int("records", next.Len()),
				slog.String("checksum", next.Checksum()))
			if onReload != nil {
				onReload(next)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, collectionExt) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: change",
				slog.String("file", filepath.Base(ev.Name)),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

const collectionExt = ".yaml"
