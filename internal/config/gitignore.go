package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GitignoreParser reads .gitignore patterns and answers whether a
// project-relative path is ignored. It implements the common subset of
// gitignore semantics: negation, directory-only patterns, root-anchored
// patterns, and * / ? wildcards within a path component.
type GitignoreParser struct {
	patterns []gitignorePattern
}

type gitignorePattern struct {
	pattern  string
	negate   bool
	dirOnly  bool
	anchored bool
}

// NewGitignoreParser creates an empty parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore reads .gitignore at the project root. A missing file is
// not an error.
func (gp *GitignoreParser) LoadGitignore(root string) error {
	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern parses and adds one gitignore line
func (gp *GitignoreParser) AddPattern(line string) {
	p := gitignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		// A slash anywhere anchors the pattern to the root
		p.anchored = true
	}
	p.pattern = line
	gp.patterns = append(gp.patterns, p)
}

// ShouldIgnore reports whether a project-relative path is ignored. Later
// patterns override earlier ones, matching gitignore precedence.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)

	ignored := false
	for _, p := range gp.patterns {
		if !gp.matches(p, path, isDir) {
			continue
		}
		ignored = !p.negate
	}
	return ignored
}

func (gp *GitignoreParser) matches(p gitignorePattern, path string, isDir bool) bool {
	if p.dirOnly {
		// Match the directory itself or anything beneath it
		if isDir && gp.matchPath(p, path) {
			return true
		}
		return gp.matchesParentDir(p, path)
	}
	if gp.matchPath(p, path) {
		return true
	}
	// A plain file pattern also ignores everything under a matching directory
	return gp.matchesParentDir(p, path)
}

func (gp *GitignoreParser) matchesParentDir(p gitignorePattern, path string) bool {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if gp.matchPath(p, strings.Join(parts[:i], "/")) {
			return true
		}
	}
	return false
}

func (gp *GitignoreParser) matchPath(p gitignorePattern, path string) bool {
	if p.anchored {
		return globMatch(p.pattern, path)
	}
	// Unanchored patterns match against the basename or any path suffix
	parts := strings.Split(path, "/")
	for i := range parts {
		if globMatch(p.pattern, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

func globMatch(pattern, path string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return pattern == path
	}
	matched, err := filepath.Match(pattern, path)
	return err == nil && matched
}

// ExclusionPatterns converts the loaded patterns to doublestar globs
// usable by discovery. Negations are skipped; discovery consults
// ShouldIgnore directly for those.
func (gp *GitignoreParser) ExclusionPatterns() []string {
	var out []string
	for _, p := range gp.patterns {
		if p.negate {
			continue
		}
		switch {
		case p.dirOnly && p.anchored:
			out = append(out, p.pattern+"/**")
		case p.dirOnly:
			out = append(out, "**/"+p.pattern+"/**")
		case p.anchored:
			out = append(out, p.pattern)
		default:
			out = append(out, "**/"+p.pattern)
		}
	}
	return out
}
