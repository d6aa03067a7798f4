// Package deps resolves a source file's forward dependencies: the
// project-relative paths of files it imports. Resolution is a practical
// regex heuristic, not a language server; third-party and unresolvable
// imports are silently dropped.
package deps

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var (
	importRegexes     map[string][]*regexp.Regexp
	importRegexesOnce sync.Once
)

func initRegexes() {
	importRegexes = map[string][]*regexp.Regexp{
		".py": {
			regexp.MustCompile(`(?m)^\s*from\s+([.\w]+)\s+import\s`),
			regexp.MustCompile(`(?m)^\s*import\s+([.\w]+)`),
		},
		".js": {
			regexp.MustCompile(`import\s+[^'"]*['"]([^'"]+)['"]`),
			regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
			regexp.MustCompile(`export\s+[^'"]*from\s+['"]([^'"]+)['"]`),
		},
		".go": {
			regexp.MustCompile(`import\s+(?:\w+\s+)?"([^"]+)"`),
			regexp.MustCompile(`(?s)import\s*\(([^)]+)\)`),
		},
	}
	for _, ext := range []string{".jsx", ".mjs", ".cjs", ".ts", ".mts", ".cts"} {
		importRegexes[ext] = importRegexes[".js"]
	}
	importRegexes[".pyi"] = importRegexes[".py"]
}

// Resolver turns import statements into project-relative file paths by
// probing the project tree for matching files.
type Resolver struct {
	root string
}

// NewResolver creates a resolver rooted at the project directory
func NewResolver(root string) *Resolver {
	importRegexesOnce.Do(initRegexes)
	return &Resolver{root: root}
}

// Resolve extracts imports from source bytes and maps each to an
// existing project file. The result is sorted, deduplicated, and never
// contains the file itself.
func (r *Resolver) Resolve(relPath string, content []byte) []string {
	ext := strings.ToLower(filepath.Ext(relPath))
	regexes := importRegexes[ext]
	if regexes == nil {
		return nil
	}

	specs := extractSpecs(regexes, string(content), ext)

	seen := make(map[string]bool)
	var out []string
	for _, spec := range specs {
		resolved := r.resolveSpec(relPath, spec, ext)
		if resolved == "" || resolved == relPath || seen[resolved] {
			continue
		}
		seen[resolved] = true
		out = append(out, resolved)
	}
	sort.Strings(out)
	return out
}

func extractSpecs(regexes []*regexp.Regexp, content, ext string) []string {
	var specs []string
	for _, re := range regexes {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			spec := strings.TrimSpace(m[1])
			if ext == ".go" && strings.Contains(spec, "\n") {
				// import ( ... ) block: one quoted path per line
				specs = append(specs, goBlockPaths(spec)...)
				continue
			}
			if spec != "" {
				specs = append(specs, spec)
			}
		}
	}
	return specs
}

var goQuoted = regexp.MustCompile(`"([^"]+)"`)

func goBlockPaths(block string) []string {
	var paths []string
	for _, m := range goQuoted.FindAllStringSubmatch(block, -1) {
		paths = append(paths, m[1])
	}
	return paths
}

// resolveSpec maps one import spec to a project-relative file path, or
// "" when the import is third-party or cannot be located.
func (r *Resolver) resolveSpec(fromRel, spec, ext string) string {
	switch ext {
	case ".py", ".pyi":
		return r.resolvePython(fromRel, spec)
	case ".go":
		return r.resolveGo(spec)
	default:
		return r.resolveEcma(fromRel, spec, ext)
	}
}

// resolvePython handles absolute (pkg.mod) and relative (.mod, ..mod)
// module paths against the project root and the importing file's
// directory.
func (r *Resolver) resolvePython(fromRel, spec string) string {
	fromDir := filepath.Dir(fromRel)

	var baseDir, module string
	if strings.HasPrefix(spec, ".") {
		dots := len(spec) - len(strings.TrimLeft(spec, "."))
		baseDir = fromDir
		for i := 1; i < dots; i++ {
			baseDir = filepath.Dir(baseDir)
		}
		module = strings.TrimLeft(spec, ".")
	} else {
		baseDir = "."
		module = spec
	}

	rel := filepath.Join(baseDir, strings.ReplaceAll(module, ".", string(filepath.Separator)))
	for _, candidate := range []string{rel + ".py", filepath.Join(rel, "__init__.py")} {
		if r.exists(candidate) {
			return filepath.ToSlash(candidate)
		}
	}
	return ""
}

// resolveEcma handles relative specifiers only; bare specifiers are
// package imports and dropped. Extension-less specs probe the language's
// sibling extensions and index files.
func (r *Resolver) resolveEcma(fromRel, spec, ext string) string {
	if !strings.HasPrefix(spec, ".") {
		return ""
	}

	rel := filepath.Join(filepath.Dir(fromRel), spec)
	if r.exists(rel) && filepath.Ext(rel) != "" {
		return filepath.ToSlash(rel)
	}

	exts := []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
	if ext == ".js" || ext == ".jsx" || ext == ".mjs" || ext == ".cjs" {
		exts = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}
	}
	for _, e := range exts {
		if r.exists(rel + e) {
			return filepath.ToSlash(rel + e)
		}
	}
	for _, e := range exts {
		index := filepath.Join(rel, "index"+e)
		if r.exists(index) {
			return filepath.ToSlash(index)
		}
	}
	return ""
}

// resolveGo maps an import path to a project directory by matching the
// path suffix against directories that exist under the root, then points
// at the directory itself (Go imports packages, not files).
func (r *Resolver) resolveGo(spec string) string {
	parts := strings.Split(spec, "/")
	for i := 0; i < len(parts); i++ {
		rel := filepath.Join(parts[i:]...)
		if rel == "" {
			continue
		}
		if info, err := os.Stat(filepath.Join(r.root, rel)); err == nil && info.IsDir() {
			return filepath.ToSlash(rel)
		}
	}
	return ""
}

func (r *Resolver) exists(rel string) bool {
	info, err := os.Stat(filepath.Join(r.root, rel))
	return err == nil && !info.IsDir()
}
