package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoConfigFile(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Project.Root)
	assert.Equal(t, int64(1024*1024), cfg.Discovery.MaxFileSize)
	assert.True(t, cfg.Discovery.RespectGitignore)
	assert.NotEmpty(t, cfg.Discovery.Exclude)
	assert.Equal(t, 16*1024, cfg.Docs.SizeBudget)
	assert.Equal(t, 30, cfg.Generation.RequestsPerMinute)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestLoad_KDLOverrides(t *testing.T) {
	root := t.TempDir()
	kdl := `
project {
    name "sample"
}
discovery {
    max_file_size "256KB"
    respect_gitignore false
    exclude {
        "**/generated/**"
        "**/*.gen.py"
    }
}
docs {
    size_budget "8KB"
}
generation {
    endpoint "http://127.0.0.1:8080/v1"
    model "local-model"
    requests_per_minute 10
}
watch {
    debounce_ms 250
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(kdl), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "sample", cfg.Project.Name)
	assert.Equal(t, int64(256*1024), cfg.Discovery.MaxFileSize)
	assert.False(t, cfg.Discovery.RespectGitignore)
	assert.Equal(t, []string{"**/generated/**", "**/*.gen.py"}, cfg.Discovery.Exclude,
		"an explicit exclude block replaces the defaults")
	assert.Equal(t, 8*1024, cfg.Docs.SizeBudget)
	assert.Equal(t, "http://127.0.0.1:8080/v1", cfg.Generation.Endpoint)
	assert.Equal(t, "local-model", cfg.Generation.Model)
	assert.Equal(t, 10, cfg.Generation.RequestsPerMinute)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
}

func TestLoad_RelativeRootResolved(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	kdl := "project {\n    root \"src\"\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(kdl), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src"), cfg.Project.Root)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative max_file_size": "discovery {\n    max_file_size -1\n}\n",
		"zero max_file_size":     "discovery {\n    max_file_size 0\n}\n",
		"negative size_budget":   "docs {\n    size_budget -4096\n}\n",
		"negative rate limit":    "generation {\n    requests_per_minute -5\n}\n",
		"negative debounce":      "watch {\n    debounce_ms -100\n}\n",
	}
	for name, kdl := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(kdl), 0o644))

			_, err := Load(root)
			assert.Error(t, err)
		})
	}
}

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"100":   100,
		"512B":  512,
		"64KB":  64 * 1024,
		"2MB":   2 * 1024 * 1024,
		"1GB":   1024 * 1024 * 1024,
		" 4kb ": 4 * 1024,
	}
	for in, want := range cases {
		got, err := parseSize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseSize("lots")
	assert.Error(t, err)
}
