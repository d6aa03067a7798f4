package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRelative(t *testing.T) {
	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "inside root",
			absPath:  "/home/user/project/src/app.py",
			rootDir:  "/home/user/project",
			expected: "src/app.py",
		},
		{
			name:     "root itself",
			absPath:  "/home/user/project",
			rootDir:  "/home/user/project",
			expected: ".",
		},
		{
			name:     "outside root stays absolute",
			absPath:  "/other/location/file.py",
			rootDir:  "/home/user/project",
			expected: "/other/location/file.py",
		},
		{
			name:     "already relative",
			absPath:  "src/app.py",
			rootDir:  "/home/user/project",
			expected: "src/app.py",
		},
		{
			name:     "unclean input",
			absPath:  "/home/user/project/./src/../src/app.py",
			rootDir:  "/home/user/project/",
			expected: "src/app.py",
		},
		{
			name:     "empty path",
			absPath:  "",
			rootDir:  "/home/user/project",
			expected: "",
		},
		{
			name:     "empty root",
			absPath:  "/home/user/project/src/app.py",
			rootDir:  "",
			expected: "/home/user/project/src/app.py",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToRelative(tt.absPath, tt.rootDir))
		})
	}
}

func TestToAbsolute(t *testing.T) {
	assert.Equal(t, "/home/user/project/src/app.py",
		ToAbsolute("src/app.py", "/home/user/project"))
	assert.Equal(t, "/elsewhere/file.py",
		ToAbsolute("/elsewhere/file.py", "/home/user/project"))
	assert.Equal(t, "/home/user/project",
		ToAbsolute("", "/home/user/project"))
}

func TestRoundTrip(t *testing.T) {
	root := "/home/user/project"
	rel := "src/nested/app.py"
	assert.Equal(t, rel, ToRelative(ToAbsolute(rel, root), root))
}
