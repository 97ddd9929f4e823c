package folio

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/eringen/folio/content"
)

// Library holds the current content snapshot. A snapshot is immutable once
// loaded; Reload swaps in a fresh one so readers never see a partial index.
type Library struct {
	fsys   fs.FS
	logger zerolog.Logger

	mu       sync.RWMutex
	snap     *content.Snapshot
	loadedAt time.Time
	onReload []func(*content.Snapshot)
}

// NewLibrary creates a library reading collections from fsys. It starts with
// an empty snapshot; call Reload to load content.
func NewLibrary(fsys fs.FS, logger zerolog.Logger) *Library {
	empty, _ := content.Load(content.Source{})
	return &Library{fsys: fsys, logger: logger, snap: empty}
}

// OpenLibrary creates a library over dir and loads it. An integrity error in
// the content is returned as is.
func OpenLibrary(dir string, logger zerolog.Logger) (*Library, error) {
	l := NewLibrary(os.DirFS(dir), logger)
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Snapshot returns the current snapshot. It is never nil.
func (l *Library) Snapshot() *content.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

// LoadedAt reports when the current snapshot was loaded.
func (l *Library) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}

// OnReload registers fn to run after every successful reload.
func (l *Library) OnReload(fn func(*content.Snapshot)) {
	l.mu.Lock()
	l.onReload = append(l.onReload, fn)
	l.mu.Unlock()
}

// Reload loads every collection again. On failure the previous snapshot stays
// in place.
func (l *Library) Reload() error {
	start := time.Now()
	snap, err := content.LoadSnapshot(l.fsys)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.snap = snap
	l.loadedAt = time.Now()
	hooks := l.onReload
	l.mu.Unlock()

	for _, fn := range hooks {
		fn(snap)
	}
	l.logger.Info().
		Int("posts", snap.Len(content.Posts)).
		Int("pages", snap.Len(content.Pages)).
		Int("authors", snap.Len(content.Authors)).
		Int("categories", snap.Len(content.Categories)).
		Dur("took", time.Since(start)).
		Msg("content loaded")
	return nil
}

// Watch reloads the library whenever a file under dir changes, waiting for
// debounce after the last event. It blocks until ctx is done.
func (l *Library) Watch(ctx context.Context, dir string, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	l.logger.Info().Str("dir", dir).Dur("debounce", debounce).Msg("watching content")

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						l.logger.Warn().Err(err).Str("dir", ev.Name).Msg("watch new directory")
					}
				}
			}
			l.logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("content changed")
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn().Err(err).Msg("content watcher")
		case <-timer.C:
			if err := l.Reload(); err != nil {
				l.logger.Error().Err(err).Msg("reload failed, keeping previous content")
			}
		}
	}
}
