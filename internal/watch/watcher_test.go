package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/ddoc/internal/config"
	"github.com/standardbeagle/ddoc/internal/pipeline"
)

// The pipeline is the production Updater
var _ Updater = (*pipeline.Pipeline)(nil)

type recordingUpdater struct {
	mu      sync.Mutex
	batches [][]string
}

func (u *recordingUpdater) Update(_ context.Context, paths []string) (*pipeline.SweepStats, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.batches = append(u.batches, paths)
	return nil, nil
}

func (u *recordingUpdater) allPaths() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []string
	for _, batch := range u.batches {
		out = append(out, batch...)
	}
	return out
}

func TestWatcher_BatchesWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	cfg := config.Default(root)
	cfg.Watch.DebounceMs = 50

	updater := &recordingUpdater{}
	w := New(cfg, updater)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register its watches
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.py"), []byte("y = 2\n"), 0o644))

	assert.Eventually(t, func() bool {
		paths := updater.allPaths()
		return contains(paths, "a.py") && contains(paths, "b.py")
	}, 3*time.Second, 25*time.Millisecond, "both writes reach a batch update")

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatcher_IgnoresOwnOutput(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	w := New(cfg, &recordingUpdater{})

	triggered := w.handleEvent(nil, fsnotify.Event{
		Name: filepath.Join(root, ".ddoc", "src", "a.py.md"),
		Op:   fsnotify.Write,
	})
	assert.False(t, triggered)
	assert.Empty(t, w.takePending())
}

func TestWatcher_IgnoresChmod(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	w := New(cfg, &recordingUpdater{})

	triggered := w.handleEvent(nil, fsnotify.Event{
		Name: filepath.Join(root, "a.py"),
		Op:   fsnotify.Chmod,
	})
	assert.False(t, triggered)
}

func TestWatcher_PendingDeduplicates(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	w := New(cfg, &recordingUpdater{})

	event := fsnotify.Event{Name: filepath.Join(root, "a.py"), Op: fsnotify.Write}
	assert.True(t, w.handleEvent(nil, event))
	assert.True(t, w.handleEvent(nil, event))

	batch := w.takePending()
	assert.Equal(t, []string{"a.py"}, batch)
	assert.Empty(t, w.takePending(), "taking the batch clears it")
}

func contains(paths []string, want string) bool {
	for _, p := range paths {
		if p == want {
			return true
		}
	}
	return false
}
