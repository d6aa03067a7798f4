package docfile

import (
	"fmt"
	"os"
	"strings"
)

// EntryKind distinguishes file and directory index entries
type EntryKind string

const (
	EntryFile EntryKind = "file"
	EntryDir  EntryKind = "dir"
)

// IndexEntry is one line of a directory index: a name, its kind, and a
// one-line description pulled from the entry's design document.
type IndexEntry struct {
	Name        string
	Kind        EntryKind
	Description string
}

func (e IndexEntry) format() string {
	name := e.Name
	if e.Kind == EntryDir {
		name = strings.TrimSuffix(name, "/") + "/"
	}
	if e.Description == "" {
		return fmt.Sprintf("- `%s`", name)
	}
	return fmt.Sprintf("- `%s` - %s", name, e.Description)
}

// parseEntryName extracts the backticked name from an index line, or ""
// when the line is not an entry.
func parseEntryName(line string) string {
	rest, ok := strings.CutPrefix(line, "- `")
	if !ok {
		return ""
	}
	name, _, ok := strings.Cut(rest, "`")
	if !ok {
		return ""
	}
	return strings.TrimSuffix(name, "/")
}

// UpdateIndexEntry updates or appends exactly one entry in the index
// document at path, preserving the order and content of every other
// line. A missing index is created with a heading for the directory.
func UpdateIndexEntry(path, heading string, entry IndexEntry) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	var lines []string
	if len(existing) > 0 {
		lines = strings.Split(strings.TrimRight(string(existing), "\n"), "\n")
	} else {
		lines = []string{"# " + heading, ""}
	}

	replaced := false
	for i, line := range lines {
		if parseEntryName(line) == strings.TrimSuffix(entry.Name, "/") {
			lines[i] = entry.format()
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, entry.format())
	}

	return WriteAtomic(path, []byte(strings.Join(lines, "\n")+"\n"))
}
