// Package filesystem watches a vault directory tree for markdown changes.
package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/discovery"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// DefaultDebounce is the quiet period after the last event before changes
// are reported. Editors and clippers often produce bursts of writes.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc receives the batch of changed vault-relative paths.
type ChangeFunc func(ctx context.Context, paths []string)

// Watcher watches a vault for markdown changes and reports them in
// debounced batches.
type Watcher struct {
	root     string
	finder   *discovery.Finder
	debounce time.Duration
	onChange ChangeFunc
}

// NewWatcher creates a watcher over the vault root. A non-positive debounce
// falls back to DefaultDebounce.
func NewWatcher(root string, cfg domain.SpecialFoldersConfig, debounce time.Duration, onChange ChangeFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:     root,
		finder:   discovery.NewFinder(cfg),
		debounce: debounce,
		onChange: onChange,
	}
}

// Watch blocks until ctx is done, reporting changed markdown files through
// the callback. Newly created folders are watched as they appear.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	logger.Info("watching %s", w.root)

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.handle(fw, event, pending) {
				timer.Reset(w.debounce)
			}

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]bool)

			logger.Info("change detected: %d documents", len(paths))
			w.onChange(ctx, paths)
		}
	}
}

// handle processes one event and reports whether the debounce timer should
// restart.
func (w *Watcher) handle(fw *fsnotify.Watcher, event fsnotify.Event, pending map[string]bool) bool {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || w.excluded(rel) {
		return false
	}

	// New folders get watched immediately so files created inside them are
	// not missed.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fw, event.Name); err != nil {
				logger.Warn("watching new folder %s: %v", rel, err)
			}
			return false
		}
	}

	base := filepath.Base(rel)
	if !strings.EqualFold(filepath.Ext(base), ".md") || w.finder.IgnoredFile(base) {
		return false
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false
	}

	pending[filepath.ToSlash(rel)] = true
	return true
}

// addTree watches dir and every non-excluded folder beneath it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(w.root, path)
		if rerr == nil && rel != "." && w.excluded(rel) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

// excluded reports whether any component of a relative path is an excluded
// folder.
func (w *Watcher) excluded(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part != "." && part != "" && w.finder.ExcludedFolder(part) {
			return true
		}
	}
	return false
}
