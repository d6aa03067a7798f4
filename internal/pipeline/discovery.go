package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/ddoc/internal/config"
	"github.com/standardbeagle/ddoc/internal/debug"
	"github.com/standardbeagle/ddoc/internal/docfile"
)

// discovery filters the project tree down to eligible source files
type discovery struct {
	cfg       *config.Config
	gitignore *config.GitignoreParser
	binary    *BinaryDetector
}

func newDiscovery(cfg *config.Config) *discovery {
	gi := config.NewGitignoreParser()
	if cfg.Discovery.RespectGitignore {
		if err := gi.LoadGitignore(cfg.Project.Root); err != nil {
			debug.LogSweep("gitignore load failed: %v\n", err)
		}
	}
	return &discovery{cfg: cfg, gitignore: gi, binary: NewBinaryDetector()}
}

// DiscoverFiles walks the project root and returns eligible source
// files, project-relative with forward slashes, in sorted order. Two
// runs over an unchanged tree yield identical slices.
func (d *discovery) DiscoverFiles() ([]string, error) {
	root := d.cfg.Project.Root
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip, never fatal
			debug.LogSweep("walk error at %s: %v\n", path, err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if d.excludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Eligible(rel, entry) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (d *discovery) excludedDir(rel string) bool {
	if docfile.InOutputTree(rel) {
		return true
	}
	if d.gitignore.ShouldIgnore(rel, true) {
		return true
	}
	// A directory is pruned when the exclusion glob covers everything
	// under it
	for _, pattern := range d.cfg.Discovery.Exclude {
		if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel+"/x"); ok {
			return true
		}
	}
	return false
}

// Eligible applies every discovery filter except content sniffing
func (d *discovery) Eligible(rel string, entry fs.DirEntry) bool {
	if docfile.InOutputTree(rel) {
		return false
	}
	if d.binary.IsBinaryByExtension(rel) {
		return false
	}
	if d.gitignore.ShouldIgnore(rel, false) {
		return false
	}
	for _, pattern := range d.cfg.Discovery.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	if len(d.cfg.Discovery.Include) > 0 {
		matched := false
		for _, pattern := range d.cfg.Discovery.Include {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if entry != nil {
		if info, err := entry.Info(); err == nil && info.Size() > d.cfg.Discovery.MaxFileSize {
			return false
		}
	}
	return true
}
