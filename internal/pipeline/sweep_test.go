package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/ddoc/internal/classify"
	"github.com/standardbeagle/ddoc/internal/config"
	"github.com/standardbeagle/ddoc/internal/docfile"
)

func TestSweep_FullRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	cfg := config.Default(root)
	gen := &fakeGenerator{}
	regen := &fakeRegenerator{}
	p := New(cfg, gen, regen)

	writeSource(t, root, "src/a.py", "def f():\n    pass\n")
	writeSource(t, root, "src/b.py", "def g():\n    pass\n")
	writeSource(t, root, "README.md", "# readme\n")

	stats, err := p.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 3, stats.ByLevel[classify.NewFile])
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 1, regen.calls)
	assert.False(t, stats.OrientationFailed)

	// Second sweep over the unchanged tree: everything UNCHANGED, no
	// further generation, deterministic order
	stats2, err := p.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats2.ByLevel[classify.Unchanged])
	assert.Equal(t, 3, gen.calls)

	var order1, order2 []string
	for _, r := range stats.Results {
		order1 = append(order1, r.Path)
	}
	for _, r := range stats2.Results {
		order2 = append(order2, r.Path)
	}
	assert.Equal(t, order1, order2)
}

func TestSweep_SkipsOutputTreeAndExcluded(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	gen := &fakeGenerator{}
	p := New(cfg, gen, nil)

	writeSource(t, root, "src/a.py", "def f():\n    pass\n")
	writeSource(t, root, ".ddoc/src/old.py.md", "stale doc\n")
	writeSource(t, root, "node_modules/lib/index.js", "module.exports = {}\n")
	writeSource(t, root, "image.png", "\x89PNG\x00\x00")

	stats, err := p.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, "src/a.py", stats.Results[0].Path)
}

func TestSweep_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("generated.py\n"), 0o644))

	cfg := config.Default(root)
	p := New(cfg, &fakeGenerator{}, nil)

	writeSource(t, root, "src/app.py", "def f():\n    pass\n")
	writeSource(t, root, "src/generated.py", "def gen():\n    pass\n")

	stats, err := p.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, "src/app.py", stats.Results[0].Path)
}

func TestSweep_FailureIsolation(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	gen := &fakeGenerator{}
	p := New(cfg, gen, nil)

	writeSource(t, root, "src/bad.py",
		"<<<<<<< HEAD\nx = 1\n=======\nx = 2\n>>>>>>> other\n")
	writeSource(t, root, "src/good.py", "def ok():\n    pass\n")

	stats, err := p.Sweep(context.Background())
	require.NoError(t, err, "one failed file never aborts the sweep")

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Failed)

	_, statErr := os.Stat(filepath.Join(root, docfile.DocPath("src/good.py")))
	assert.NoError(t, statErr, "the healthy file was still documented")
}

func TestSweep_OrientationFailureIsNonFatal(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	regen := &fakeRegenerator{err: assert.AnError}
	p := New(cfg, &fakeGenerator{}, regen)

	writeSource(t, root, "src/a.py", "def f():\n    pass\n")

	stats, err := p.Sweep(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.OrientationFailed)
	assert.Equal(t, 0, stats.Failed)
}

func TestUpdate_DropRules(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	gen := &fakeGenerator{}
	regen := &fakeRegenerator{}
	p := New(cfg, gen, regen)

	writeSource(t, root, "src/a.py", "def f():\n    pass\n")

	stats, err := p.Update(context.Background(), []string{
		"src/a.py",
		"src/missing.py",
		"image.png",
		".ddoc/src/a.py.md",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Processed, "missing, binary, and output-tree paths are silently dropped")
	assert.Equal(t, "src/a.py", stats.Results[0].Path)
	assert.Equal(t, 0, regen.calls, "batch updates never regenerate orientation")
}

func TestUpdate_AbsolutePaths(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	p := New(cfg, &fakeGenerator{}, nil)

	writeSource(t, root, "src/a.py", "def f():\n    pass\n")

	stats, err := p.Update(context.Background(), []string{filepath.Join(root, "src/a.py")})
	require.NoError(t, err)
	require.Len(t, stats.Results, 1)
	assert.Equal(t, "src/a.py", stats.Results[0].Path)
}

func TestStats_Summary(t *testing.T) {
	stats := newSweepStats()
	stats.record(FileResult{Path: "a.py", Level: classify.NewFile})
	stats.record(FileResult{Path: "b.py", Level: classify.Unchanged})
	stats.record(FileResult{Path: "c.py", Level: classify.NewFile, Failed: true})

	summary := stats.Summary()
	assert.Contains(t, summary, "processed 3 file(s)")
	assert.Contains(t, summary, "NEW_FILE")
	assert.Contains(t, summary, "UNCHANGED")
	assert.Contains(t, summary, "failed")
}
