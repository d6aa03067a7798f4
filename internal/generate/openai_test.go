package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestParseResult_PlainJSON(t *testing.T) {
	result, err := parseResult(`{
		"summary": "Entry point.",
		"interface_contract": "Exposes main().",
		"tags": ["cli"],
		"warnings": []
	}`)
	require.NoError(t, err)
	assert.Equal(t, "Entry point.", result.Summary)
	assert.Equal(t, "Exposes main().", result.InterfaceContract)
	assert.Equal(t, []string{"cli"}, result.Tags)
}

func TestParseResult_FencedJSON(t *testing.T) {
	result, err := parseResult("```json\n{\"summary\": \"Fenced.\", \"interface_contract\": \"c\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Fenced.", result.Summary)
}

func TestParseResult_Invalid(t *testing.T) {
	_, err := parseResult("I could not produce JSON, sorry.")
	assert.Error(t, err)

	_, err = parseResult(`{"tags": ["empty"]}`)
	assert.Error(t, err, "a reply with no summary or contract is unusable")
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(Request{
		Path:        "src/app.py",
		Language:    "python",
		Source:      "def run(): pass",
		Skeleton:    "ddoc-skeleton v1\nfunc run()\n",
		ExistingDoc: "# src/app.py\n\nOld summary.",
	})

	assert.Contains(t, prompt, "File: src/app.py")
	assert.Contains(t, prompt, "Language: python")
	assert.Contains(t, prompt, "ddoc-skeleton v1")
	assert.Contains(t, prompt, "def run(): pass")
	assert.Contains(t, prompt, "Old summary.")

	// Skeleton section disappears for unsupported languages
	bare := buildPrompt(Request{Path: "a.txt", Language: "", Source: "x"})
	assert.False(t, strings.Contains(bare, "skeleton"))
}

func TestNewClient_RateLimit(t *testing.T) {
	client := NewClient(Options{Model: "test", RequestsPerMinute: 60})
	assert.InDelta(t, 1.0, float64(client.limiter.Limit()), 0.001)

	unlimited := NewClient(Options{Model: "test"})
	assert.Equal(t, rate.Inf, unlimited.limiter.Limit(), "no configured cap means unlimited")
}
