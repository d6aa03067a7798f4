// Package pipeline drives design-document maintenance: it classifies
// each source file against its document, decides between skip, footer
// refresh, and regeneration, and persists results atomically. A sweep
// composes this over the whole tree; a batch update over an explicit
// file list.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/standardbeagle/ddoc/internal/analysis"
	"github.com/standardbeagle/ddoc/internal/classify"
	"github.com/standardbeagle/ddoc/internal/config"
	"github.com/standardbeagle/ddoc/internal/debug"
	"github.com/standardbeagle/ddoc/internal/deps"
	"github.com/standardbeagle/ddoc/internal/docfile"
	ddocerrors "github.com/standardbeagle/ddoc/internal/errors"
	"github.com/standardbeagle/ddoc/internal/fingerprint"
	"github.com/standardbeagle/ddoc/internal/generate"
	"github.com/standardbeagle/ddoc/internal/skeleton"
	"github.com/standardbeagle/ddoc/internal/version"
)

// Pipeline processes files strictly one at a time; the only suspension
// point is the generation call. The document tree is shared with human
// and agent editors, and correctness under that sharing comes from the
// hash checks, not from locking.
type Pipeline struct {
	cfg      *config.Config
	registry *analysis.Registry
	resolver *deps.Resolver
	gen      generate.Generator
	regen    generate.Regenerator
	disc     *discovery
}

// New creates a pipeline. regen may be nil; orientation regeneration is
// then skipped.
func New(cfg *config.Config, gen generate.Generator, regen generate.Regenerator) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		registry: analysis.NewRegistry(),
		resolver: deps.NewResolver(cfg.Project.Root),
		gen:      gen,
		regen:    regen,
		disc:     newDiscovery(cfg),
	}
}

// fileState is everything ProcessFile computes before deciding what to do
type fileState struct {
	rel           string
	source        []byte
	contentHash   string
	interfaceHash string
	skeletonText  string
	language      string

	docAbs    string
	docExists bool
	body      []byte
	footer    *docfile.Footer
	bodyHash  string
}

// ProcessFile runs one file through the classification state machine
func (p *Pipeline) ProcessFile(ctx context.Context, rel string) FileResult {
	state, err := p.loadState(rel)
	if err != nil {
		return FileResult{Path: rel, Failed: true, Err: err}
	}

	in := classify.Input{
		DocExists:     state.docExists,
		Footer:        state.footer,
		BodyHash:      state.bodyHash,
		ContentHash:   state.contentHash,
		InterfaceHash: state.interfaceHash,
	}
	level := classify.Classify(in)
	debug.LogSweep("%s -> %s\n", rel, level)

	switch {
	case level == classify.Unchanged:
		return FileResult{Path: rel, Level: level}

	case level == classify.AgentUpdated:
		return p.refreshFooter(state, level)

	default:
		return p.generateDocument(ctx, state, level)
	}
}

// Classify computes the change level for one file without writing
// anything. Used by the check command.
func (p *Pipeline) Classify(rel string) (classify.ChangeLevel, error) {
	state, err := p.loadState(rel)
	if err != nil {
		return 0, err
	}
	return classify.Classify(classify.Input{
		DocExists:     state.docExists,
		Footer:        state.footer,
		BodyHash:      state.bodyHash,
		ContentHash:   state.contentHash,
		InterfaceHash: state.interfaceHash,
	}), nil
}

func (p *Pipeline) loadState(rel string) (*fileState, error) {
	root := p.cfg.Project.Root
	source, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, ddocerrors.NewFileError("read source", rel, err)
	}

	state := &fileState{
		rel:         rel,
		source:      source,
		contentHash: fingerprint.Content(source),
		docAbs:      filepath.Join(root, filepath.FromSlash(docfile.DocPath(rel))),
	}

	sk, err := p.registry.ExtractInterface(rel, source)
	if err != nil {
		// Analyzer trouble degrades to content-only classification
		debug.LogAnalysis("interface extraction failed for %s: %v\n", rel, err)
		sk = nil
	}
	if sk != nil {
		state.language = sk.Language
		state.skeletonText = string(skeleton.Render(sk))
		state.interfaceHash = fingerprint.Interface(sk)
	}

	doc, err := os.ReadFile(state.docAbs)
	if err == nil {
		state.docExists = true
		state.body, state.footer = docfile.Split(doc)
		state.bodyHash = fingerprint.DesignBody(state.body)
	} else if !os.IsNotExist(err) {
		return nil, ddocerrors.NewFileError("read document", rel, err)
	}

	return state, nil
}

// refreshFooter rewrites only the footer: fresh hashes and timestamp
// around the current on-disk body, which is never touched.
func (p *Pipeline) refreshFooter(state *fileState, level classify.ChangeLevel) FileResult {
	footer := docfile.NewFooter(state.rel, state.contentHash, state.interfaceHash, state.bodyHash, version.Generator)
	if err := docfile.WriteAtomic(state.docAbs, docfile.Compose(state.body, footer)); err != nil {
		return FileResult{Path: state.rel, Level: level, Failed: true, Err: err}
	}

	result := FileResult{Path: state.rel, Level: level}
	if desc := docfile.Description(state.body); desc != "" {
		result.IndexRefreshed = p.refreshIndex(state.rel, desc)
	}
	return result
}

// generateDocument runs the generation path: conflict guard, async
// collaborator call, race recheck, document assembly, atomic write.
func (p *Pipeline) generateDocument(ctx context.Context, state *fileState, level classify.ChangeLevel) FileResult {
	if line := docfile.FindConflictMarkers(state.source); line != 0 {
		return FileResult{
			Path: state.rel, Level: level, Failed: true,
			Err: ddocerrors.NewConflictMarkerError(state.rel, line),
		}
	}

	// Pre-call snapshot for the race recheck
	var snapshotFast uint64
	if state.docExists {
		snapshotFast = fingerprint.DesignBodyFast(state.body)
	}

	result, err := p.gen.Generate(ctx, generate.Request{
		Path:        state.rel,
		Language:    state.language,
		Source:      string(state.source),
		Skeleton:    state.skeletonText,
		ExistingDoc: string(state.body),
	})
	if err != nil {
		return FileResult{Path: state.rel, Level: level, Failed: true, Err: err}
	}

	// Race recheck: a hand-edit during the generation call wins; the
	// generated output is discarded in favor of a footer-only refresh.
	if state.docExists {
		if current, err := os.ReadFile(state.docAbs); err == nil {
			body, _ := docfile.Split(current)
			if fingerprint.DesignBodyFast(body) != snapshotFast ||
				fingerprint.DesignBody(body) != state.bodyHash {
				debug.LogSweep("concurrent edit detected for %s, keeping the edit\n", state.rel)
				state.body = body
				state.bodyHash = fingerprint.DesignBody(body)
				return p.refreshFooter(state, classify.AgentUpdated)
			}
		}
	}

	dependencies := p.resolver.Resolve(state.rel, state.source)
	body := renderBody(state.rel, result, dependencies)

	footer := docfile.NewFooter(state.rel, state.contentHash, state.interfaceHash,
		fingerprint.DesignBody(body), version.Generator)
	doc := docfile.Compose(body, footer)

	budgetExceeded := p.cfg.Docs.SizeBudget > 0 && len(doc) > p.cfg.Docs.SizeBudget
	if budgetExceeded {
		debug.LogSweep("%s exceeds size budget (%d > %d)\n", state.rel, len(doc), p.cfg.Docs.SizeBudget)
	}

	if err := docfile.WriteAtomic(state.docAbs, doc); err != nil {
		return FileResult{Path: state.rel, Level: level, Failed: true, Err: err}
	}

	return FileResult{
		Path:           state.rel,
		Level:          level,
		BudgetExceeded: budgetExceeded,
		IndexRefreshed: p.refreshIndex(state.rel, docfile.Description(body)),
	}
}

// refreshIndex updates this file's entry in its directory index
func (p *Pipeline) refreshIndex(rel, description string) bool {
	dir := filepath.ToSlash(filepath.Dir(rel))
	heading := dir
	if dir == "." {
		heading = p.cfg.Project.Name
		if heading == "" {
			heading = filepath.Base(p.cfg.Project.Root)
		}
	}

	indexAbs := filepath.Join(p.cfg.Project.Root, filepath.FromSlash(docfile.IndexPath(dir)))
	err := docfile.UpdateIndexEntry(indexAbs, heading, docfile.IndexEntry{
		Name:        filepath.Base(rel),
		Kind:        docfile.EntryFile,
		Description: description,
	})
	if err != nil {
		debug.LogSweep("index refresh failed for %s: %v\n", rel, err)
		return false
	}
	return true
}

// Discover lists eligible source files in stable order without
// processing them.
func (p *Pipeline) Discover() ([]string, error) {
	return p.disc.DiscoverFiles()
}

// Sweep processes every eligible file under the project root in stable
// order, then regenerates the project orientation document.
func (p *Pipeline) Sweep(ctx context.Context) (*SweepStats, error) {
	files, err := p.disc.DiscoverFiles()
	if err != nil {
		return nil, err
	}

	stats := newSweepStats()
	for _, rel := range files {
		stats.record(p.processSafely(ctx, rel))
	}

	if p.regen != nil {
		if err := p.regen.RegenerateOrientation(ctx, p.cfg.Project.Root); err != nil {
			debug.LogSweep("orientation regeneration failed: %v\n", err)
			stats.OrientationFailed = true
		}
	}
	return stats, nil
}

// Update runs the per-file algorithm over an explicit list. Paths that
// no longer exist, are binary, or lie inside the output tree are
// silently dropped. No orientation regeneration.
func (p *Pipeline) Update(ctx context.Context, paths []string) (*SweepStats, error) {
	stats := newSweepStats()
	for _, path := range paths {
		rel, ok := p.normalize(path)
		if !ok {
			continue
		}
		stats.record(p.processSafely(ctx, rel))
	}
	return stats, nil
}

// normalize converts a caller-supplied path to project-relative form and
// applies the batch-update drop rules.
func (p *Pipeline) normalize(path string) (string, bool) {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(p.cfg.Project.Root, path)
		if err != nil {
			return "", false
		}
		rel = r
	}
	rel = filepath.ToSlash(filepath.Clean(rel))

	if docfile.InOutputTree(rel) {
		return "", false
	}
	if p.disc.binary.IsBinaryByExtension(rel) {
		return "", false
	}
	info, err := os.Stat(filepath.Join(p.cfg.Project.Root, filepath.FromSlash(rel)))
	if err != nil || info.IsDir() {
		return "", false
	}
	return rel, true
}

// processSafely isolates one file's processing; a panic becomes a
// failed result instead of aborting the run.
func (p *Pipeline) processSafely(ctx context.Context, rel string) (result FileResult) {
	defer func() {
		if r := recover(); r != nil {
			debug.LogSweep("panic processing %s: %v\n", rel, r)
			result = FileResult{
				Path: rel, Failed: true,
				Err: fmt.Errorf("internal error processing %s: %v", rel, r),
			}
		}
	}()
	return p.ProcessFile(ctx, rel)
}
