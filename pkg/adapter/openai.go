package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/output"
)

// OpenAIConfig configures a client for an OpenAI-compatible chat completion endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	// Headers are sent on every request, e.g. OpenRouter's HTTP-Referer and X-Title.
	Headers map[string]string
	Timeout time.Duration
	// Model is listed first by Models when set.
	Model string
}

// OpenAIAdapter implements the Adapter interface for OpenAI-compatible endpoints.
type OpenAIAdapter struct {
	client  openai.Client
	baseURL string
	model   string
}

// NewOpenAIAdapter creates a new OpenAI-compatible adapter. The SDK's automatic
// retries are disabled, so a failed call surfaces on the first error.
func NewOpenAIAdapter(cfg OpenAIConfig) (*OpenAIAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	keys := make([]string, 0, len(cfg.Headers))
	for key := range cfg.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value := cfg.Headers[key]; value != "" {
			opts = append(opts, option.WithHeader(key, value))
		}
	}

	client := openai.NewClient(opts...)
	return &OpenAIAdapter{client: client, baseURL: cfg.BaseURL, model: cfg.Model}, nil
}

// Name returns the adapter identifier.
func (a *OpenAIAdapter) Name() string {
	return "openai"
}

// Models returns the configured model followed by common OpenRouter model ids.
func (a *OpenAIAdapter) Models() []string {
	models := []string{"openai/gpt-4o-mini", "openai/gpt-4o"}
	if a.model == "" || a.model == models[0] {
		return models
	}
	return append([]string{a.model}, models...)
}

// Generate sends the request to the chat completion endpoint.
func (a *OpenAIAdapter) Generate(ctx context.Context, req Request) (*Response, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(req.Model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(defaultMaxTokens),
	})
	if err != nil {
		return nil, wrapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &Response{
		Adapter: a.Name(),
		Model:   req.Model,
		Result:  output.RawText{Text: resp.Choices[0].Message.Content},
		Usage: &Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func wrapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return newAdapterError("openai", apiErr.StatusCode, err)
	}
	return fmt.Errorf("openai API error: %w", err)
}
