package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/standardbeagle/ddoc/internal/debug"
	ddocerrors "github.com/standardbeagle/ddoc/internal/errors"
)

const systemPrompt = `You are a technical writer producing design documents for source files.
Given a source file and its public interface skeleton, respond with a single JSON object:
{"summary": "...", "interface_contract": "...", "dependencies_hint": "...", "tests_ref": "...",
 "warnings": [], "tags": [], "cross_references": []}
summary: one paragraph on the file's purpose and role.
interface_contract: the behavioral contract of the public surface, markdown.
Respond with JSON only.`

// Client calls an OpenAI-compatible chat endpoint. A rate limiter sits
// in front of every request; the limiter wait is the pipeline's only
// suspension point besides the call itself.
type Client struct {
	api     *openai.Client
	model   string
	limiter *rate.Limiter
}

// Options configures the generation client
type Options struct {
	Endpoint string
	APIKey   string
	Model    string
	// RequestsPerMinute caps the call rate; 0 means unlimited
	RequestsPerMinute int
}

// NewClient creates a generation client for an OpenAI-compatible endpoint
func NewClient(opts Options) *Client {
	config := openai.DefaultConfig(opts.APIKey)
	if opts.Endpoint != "" {
		config.BaseURL = opts.Endpoint
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}

	return &Client{
		api:     openai.NewClientWithConfig(config),
		model:   opts.Model,
		limiter: limiter,
	}
}

// Generate implements Generator
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ddocerrors.NewGenerationError(req.Path, err)
	}

	debug.LogGenerate("calling model %s for %s\n", c.model, req.Path)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		return nil, ddocerrors.NewGenerationError(req.Path, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ddocerrors.NewGenerationError(req.Path, fmt.Errorf("model returned no choices"))
	}

	result, err := parseResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, ddocerrors.NewGenerationError(req.Path, err)
	}
	return result, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\nLanguage: %s\n\n", req.Path, req.Language)
	if req.Skeleton != "" {
		fmt.Fprintf(&b, "Public interface skeleton:\n```\n%s```\n\n", req.Skeleton)
	}
	fmt.Fprintf(&b, "Source:\n```%s\n%s\n```\n", req.Language, req.Source)
	if req.ExistingDoc != "" {
		fmt.Fprintf(&b, "\nExisting design document (for continuity):\n%s\n", req.ExistingDoc)
	}
	return b.String()
}

// parseResult decodes the model's JSON reply, tolerating a markdown
// code fence around it.
func parseResult(content string) (*Result, error) {
	text := strings.TrimSpace(content)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("unparsable generation response: %w", err)
	}
	if result.Summary == "" && result.InterfaceContract == "" {
		return nil, fmt.Errorf("generation response carried no content")
	}
	return &result, nil
}
