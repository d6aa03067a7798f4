// Package config holds project configuration: discovery filters,
// document budgets, and generation endpoint settings. Configuration is
// read from a .ddoc.kdl file at the project root; every field has a
// working default so the file is optional.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	ddocerrors "github.com/standardbeagle/ddoc/internal/errors"
)

// ConfigFileName is the KDL config file looked up at the project root
const ConfigFileName = ".ddoc.kdl"

type Config struct {
	Version    int
	Project    Project
	Discovery  Discovery
	Docs       Docs
	Generation Generation
	Watch      Watch
}

type Project struct {
	Root string
	Name string
}

// Discovery controls which files a sweep considers
type Discovery struct {
	MaxFileSize      int64
	RespectGitignore bool
	Include          []string
	Exclude          []string
}

// Docs controls document output
type Docs struct {
	// SizeBudget is the soft cap on generated document bytes; overage
	// is flagged, never blocked
	SizeBudget int
}

// Generation configures the text-generation collaborator
type Generation struct {
	Endpoint          string
	APIKey            string
	Model             string
	RequestsPerMinute int
}

// Watch configures watch mode
type Watch struct {
	DebounceMs int
}

// Default returns a configuration with all defaults applied, rooted at
// the given directory.
func Default(root string) *Config {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Discovery: Discovery{
			MaxFileSize:      1024 * 1024,
			RespectGitignore: true,
			Exclude:          defaultExclusions(),
		},
		Docs: Docs{
			SizeBudget: 16 * 1024,
		},
		Generation: Generation{
			Endpoint:          "http://localhost:11434/v1",
			APIKey:            os.Getenv("DDOC_API_KEY"),
			Model:             "qwen2.5-coder:7b",
			RequestsPerMinute: 30,
		},
		Watch: Watch{
			DebounceMs: 500,
		},
	}
}

// Load reads .ddoc.kdl from the project root when present and merges it
// over the defaults. A missing config file is not an error.
func Load(root string) (*Config, error) {
	return load(root, filepath.Join(root, ConfigFileName), true)
}

// LoadFile reads an explicit config file and merges it over the defaults
// for the given root. Unlike Load, a missing file is an error.
func LoadFile(root, path string) (*Config, error) {
	return load(root, path, false)
}

func load(root, path string, allowMissing bool) (*Config, error) {
	cfg := Default(root)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) && allowMissing {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := parseKDL(cfg, string(content)); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(root, cfg.Project.Root))
	}
	return cfg, nil
}

// validate rejects values the pipeline cannot operate with. KDL parsing
// is lenient, so structural checks happen here rather than at parse time.
func (c *Config) validate() error {
	if c.Discovery.MaxFileSize <= 0 {
		return ddocerrors.NewConfigError("discovery.max_file_size",
			strconv.FormatInt(c.Discovery.MaxFileSize, 10), errors.New("must be positive"))
	}
	if c.Docs.SizeBudget < 0 {
		return ddocerrors.NewConfigError("docs.size_budget",
			strconv.Itoa(c.Docs.SizeBudget), errors.New("must not be negative"))
	}
	if c.Generation.RequestsPerMinute < 0 {
		return ddocerrors.NewConfigError("generation.requests_per_minute",
			strconv.Itoa(c.Generation.RequestsPerMinute), errors.New("must not be negative"))
	}
	if c.Watch.DebounceMs < 0 {
		return ddocerrors.NewConfigError("watch.debounce_ms",
			strconv.Itoa(c.Watch.DebounceMs), errors.New("must not be negative"))
	}
	return nil
}

// defaultExclusions covers dependency trees, build output, caches, and
// generated files that should never receive design documents.
func defaultExclusions() []string {
	return []string{
		// Hidden files and directories, including .git and the output tree
		"**/.*/**",
		"**/.*",

		// Package managers & dependencies
		"**/node_modules/**",
		"**/vendor/**",
		"**/bower_components/**",
		"**/venv/**",
		"**/virtualenv/**",
		"**/site-packages/**",

		// Build artifacts & output
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/target/**",
		"**/bin/**",
		"**/obj/**",
		"**/*.min.js",
		"**/*.min.css",
		"**/*.bundle.js",
		"**/*.chunk.js",

		// Python compiled files
		"**/__pycache__/**",
		"**/*.pyc",
		"**/*.pyo",
		"**/*.egg-info/**",

		// Editor temp files
		"**/*.swp",
		"**/*~",
		"**/*.tmp",
		"**/*.bak",
		"**/*.orig",

		// Generated code
		"**/*.pb.go",
		"**/*_generated.go",
		"**/*.d.ts",

		// Logs, caches, coverage
		"**/logs/**",
		"**/*.log",
		"**/coverage/**",
		"**/.pytest_cache/**",
		"**/.mypy_cache/**",
	}
}
