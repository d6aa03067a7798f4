package generate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/standardbeagle/ddoc/internal/docfile"
)

// IndexRegenerator rebuilds the project orientation document by stitching
// the per-directory indexes together. It never calls the generation
// backend; orientation stays cheap enough to rebuild after every sweep.
type IndexRegenerator struct {
	ProjectName string
}

// RegenerateOrientation writes <root>/.ddoc/ORIENTATION.md from the index
// files currently in the output tree.
func (r *IndexRegenerator) RegenerateOrientation(ctx context.Context, root string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	outputRoot := filepath.Join(root, docfile.OutputDirName)
	indexes, err := collectIndexes(outputRoot)
	if err != nil {
		return err
	}

	name := r.ProjectName
	if name == "" {
		name = filepath.Base(root)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	b.WriteString("Machine-maintained orientation for this project's design documents.\n")
	b.WriteString("Each section mirrors one source directory; entries link by name to\n")
	b.WriteString("the design document of the matching file.\n")

	for _, idx := range indexes {
		heading := idx.dir
		if heading == "." {
			heading = "(root)"
		}
		fmt.Fprintf(&b, "\n## %s\n\n", heading)
		for _, line := range idx.entries {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	return docfile.WriteAtomic(filepath.Join(root, docfile.OrientationPath()), []byte(b.String()))
}

type dirIndex struct {
	dir     string
	entries []string
}

// collectIndexes gathers entry lines from every index.md under the output
// tree, sorted by directory for a stable document.
func collectIndexes(outputRoot string) ([]dirIndex, error) {
	var indexes []dirIndex

	err := filepath.WalkDir(outputRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if entry.IsDir() || entry.Name() != docfile.IndexFileName {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}

		rel, relErr := filepath.Rel(outputRoot, filepath.Dir(path))
		if relErr != nil {
			return relErr
		}

		var entries []string
		for _, line := range strings.Split(string(content), "\n") {
			if strings.HasPrefix(line, "- `") {
				entries = append(entries, line)
			}
		}
		if len(entries) > 0 {
			indexes = append(indexes, dirIndex{dir: filepath.ToSlash(rel), entries: entries})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(indexes, func(i, j int) bool { return indexes[i].dir < indexes[j].dir })
	return indexes, nil
}
