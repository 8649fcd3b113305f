// Package watch reloads the content store when source files change.
// Intended for development: a production build loads once and exits or
// serves a static store.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kadar77/sarangoo-content/pkg/contentstore"
)

// BuildFunc builds and loads a fresh store.
type BuildFunc func(ctx context.Context) (contentstore.Service, error)

type holder struct {
	svc contentstore.Service
}

// Reloader serves the most recently loaded store and swaps in a new one
// whenever a rebuild succeeds. A failed rebuild keeps the last good
// store, so readers never see partial content.
type Reloader struct {
	build    BuildFunc
	current  atomic.Pointer[holder]
	logger   *slog.Logger
	debounce time.Duration
}

// NewReloader wraps an initially loaded store. A nil logger falls back
// to slog.Default.
func NewReloader(initial contentstore.Service, build BuildFunc, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reloader{
		build:    build,
		logger:   logger,
		debounce: 200 * time.Millisecond,
	}
	r.current.Store(&holder{svc: initial})
	return r
}

// Store returns the last successfully loaded store.
func (r *Reloader) Store() contentstore.Service {
	return r.current.Load().svc
}

// Reload builds a fresh store and swaps it in. On failure the previous
// store stays in place and the error is returned.
func (r *Reloader) Reload(ctx context.Context) error {
	svc, err := r.build(ctx)
	if err != nil {
		return err
	}
	r.current.Store(&holder{svc: svc})
	return nil
}

// Watch blocks watching the content root (and its subdirectories) until
// ctx is canceled. Change bursts are debounced into a single reload.
func (r *Reloader) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New subdirectories need their own watch.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := watcher.Add(ev.Name); addErr != nil {
						r.logger.Warn("failed to watch new directory", "path", ev.Name, "error", addErr)
					}
				}
			}
			pending = true
			timer.Reset(r.debounce)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("content watch error", "error", werr)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := r.Reload(ctx); err != nil {
				r.logger.Error("content reload failed, keeping last good store", "error", err)
				continue
			}
			if stats, err := r.Store().Stats(); err == nil {
				r.logger.Info("content reloaded",
					"load_id", stats.LoadID,
					"artworks", stats.Artworks,
					"exhibitions", stats.Exhibitions,
					"pages", stats.Pages,
				)
			}
		}
	}
}
