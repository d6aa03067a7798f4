// Package watch drives continuous document updates: an fsnotify watcher
// over the project tree feeds a debouncer, and each quiet period flushes
// the accumulated paths through a batch update.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/ddoc/internal/config"
	"github.com/standardbeagle/ddoc/internal/debug"
	"github.com/standardbeagle/ddoc/internal/docfile"
	"github.com/standardbeagle/ddoc/internal/pipeline"
)

// Updater is the batch-update surface the watcher drives; the pipeline
// satisfies it. The watcher discards the returned stats; watch mode
// reports through debug logging only.
type Updater interface {
	Update(ctx context.Context, paths []string) (*pipeline.SweepStats, error)
}

// Watcher debounces file system events into batch updates
type Watcher struct {
	cfg     *config.Config
	updater Updater

	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a watcher for the configured project root
func New(cfg *config.Config, updater Updater) *Watcher {
	return &Watcher{
		cfg:     cfg,
		updater: updater,
		pending: make(map[string]struct{}),
	}
}

// Run watches the tree until the context is canceled. Events settle for
// one debounce interval before a batch update fires; updates and event
// collection run concurrently so a long generation call never stalls
// event intake.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addWatches(fsw, w.cfg.Project.Root); err != nil {
		return err
	}

	debounce := time.Duration(w.cfg.Watch.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	flush := make(chan []string)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.collectEvents(ctx, fsw, debounce, flush)
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case paths := <-flush:
				debug.Log("watch", "updating %d file(s)\n", len(paths))
				if _, err := w.updater.Update(ctx, paths); err != nil {
					debug.Log("watch", "batch update failed: %v\n", err)
				}
			}
		}
	})

	return g.Wait()
}

// collectEvents drains fsnotify and emits pending path batches after
// each quiet interval.
func (w *Watcher) collectEvents(ctx context.Context, fsw *fsnotify.Watcher, debounce time.Duration, flush chan<- []string) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(fsw, event) {
				timer.Reset(debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			debug.Log("watch", "fsnotify error: %v\n", err)

		case <-timer.C:
			if batch := w.takePending(); len(batch) > 0 {
				select {
				case flush <- batch:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// handleEvent records a relevant event; returns true when the debounce
// timer should restart.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.cfg.Project.Root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	// The tool's own writes must never re-trigger it
	if docfile.InOutputTree(rel) {
		return false
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !hiddenDir(rel) {
				if err := w.addWatches(fsw, event.Name); err != nil {
					debug.Log("watch", "failed to watch new directory %s: %v\n", rel, err)
				}
			}
			return false
		}
	}

	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return false
	}

	w.mu.Lock()
	w.pending[rel] = struct{}{}
	w.mu.Unlock()
	return true
}

func (w *Watcher) takePending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 {
		return nil
	}
	batch := make([]string, 0, len(w.pending))
	for path := range w.pending {
		batch = append(batch, path)
	}
	w.pending = make(map[string]struct{})
	return batch
}

// addWatches registers root and every non-hidden subdirectory
func (w *Watcher) addWatches(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.cfg.Project.Root, path)
		if relErr == nil {
			rel = filepath.ToSlash(rel)
			if rel != "." && (docfile.InOutputTree(rel) || hiddenDir(rel)) {
				return filepath.SkipDir
			}
		}
		if err := fsw.Add(path); err != nil {
			debug.Log("watch", "cannot watch %s: %v\n", path, err)
		}
		return nil
	})
}

func hiddenDir(rel string) bool {
	base := filepath.Base(rel)
	return len(base) > 1 && base[0] == '.'
}
