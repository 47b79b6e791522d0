package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/output"
)

// AnthropicAdapter implements the Adapter interface for Claude models.
type AnthropicAdapter struct {
	client anthropic.Client
}

// NewAnthropicAdapter creates a new Anthropic adapter.
func NewAnthropicAdapter(apiKey string, timeout time.Duration) (*AnthropicAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicAdapter{client: client}, nil
}

// Name returns the adapter identifier.
func (a *AnthropicAdapter) Name() string {
	return "anthropic"
}

// Models returns the list of supported Claude models.
func (a *AnthropicAdapter) Models() []string {
	return []string{
		"claude-sonnet-4-20250514",
		"claude-opus-4-20250514",
	}
}

// Generate sends the request to Claude. Each text block becomes one element of
// the returned sequence.
func (a *AnthropicAdapter) Generate(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapAnthropicError(err)
	}

	var blocks output.Sequence
	for _, block := range resp.Content {
		if block.Type == "text" {
			blocks = append(blocks, output.NamedField{Name: "text", Text: block.Text})
		}
	}

	input := int(resp.Usage.InputTokens)
	completion := int(resp.Usage.OutputTokens)
	return &Response{
		Adapter: a.Name(),
		Model:   req.Model,
		Result:  blocks,
		Usage: &Usage{
			PromptTokens:     input,
			CompletionTokens: completion,
			TotalTokens:      input + completion,
		},
	}, nil
}

func wrapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return newAdapterError("anthropic", apiErr.StatusCode, err)
	}
	return fmt.Errorf("anthropic API error: %w", err)
}
