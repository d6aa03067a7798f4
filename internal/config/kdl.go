package config

import (
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	ddocerrors "github.com/standardbeagle/ddoc/internal/errors"
)

// parseKDL merges a .ddoc.kdl document over cfg. Unknown nodes are
// ignored so configs stay forward-compatible.
func parseKDL(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return ddocerrors.NewConfigError("kdl", "", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignString(cn, "name", func(v string) { cfg.Project.Name = v })
			}

		case "discovery":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Discovery.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if size, err := parseSize(s); err == nil {
							cfg.Discovery.MaxFileSize = size
						}
					}
				case "respect_gitignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Discovery.RespectGitignore = b
					}
				case "include":
					cfg.Discovery.Include = append(cfg.Discovery.Include, collectStringArgs(cn)...)
				case "exclude":
					// An explicit exclude block replaces the defaults
					cfg.Discovery.Exclude = collectStringArgs(cn)
				}
			}

		case "docs":
			for _, cn := range n.Children {
				if nodeName(cn) == "size_budget" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Docs.SizeBudget = v
					}
					if s, ok := firstStringArg(cn); ok {
						if size, err := parseSize(s); err == nil {
							cfg.Docs.SizeBudget = int(size)
						}
					}
				}
			}

		case "generation":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "endpoint":
					assignString(cn, "endpoint", func(v string) { cfg.Generation.Endpoint = v })
				case "model":
					assignString(cn, "model", func(v string) { cfg.Generation.Model = v })
				case "api_key":
					assignString(cn, "api_key", func(v string) { cfg.Generation.APIKey = v })
				case "requests_per_minute":
					if v, ok := firstIntArg(cn); ok {
						cfg.Generation.RequestsPerMinute = v
					}
				}
			}

		case "watch":
			for _, cn := range n.Children {
				if nodeName(cn) == "debounce_ms" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Watch.DebounceMs = v
					}
				}
			}
		}
	}
	return nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads strings from inline arguments or, for block
// form like exclude { "pattern" }, from child nodes.
func collectStringArgs(n *document.Node) []string {
	var out []string
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "64KB", "1MB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	numStr := s
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}
	return num * multiplier, nil
}
