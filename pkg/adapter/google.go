package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/output"
)

// GoogleAdapter implements the Adapter interface for Gemini models.
type GoogleAdapter struct {
	client  *genai.Client
	timeout time.Duration
}

// NewGoogleAdapter creates a new Google Gemini adapter. A positive timeout
// bounds each request.
func NewGoogleAdapter(ctx context.Context, apiKey string, timeout time.Duration) (*GoogleAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if timeout > 0 {
		cfg.HTTPOptions.Timeout = &timeout
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleAdapter{
		client:  client,
		timeout: timeout,
	}, nil
}

// Name returns the adapter identifier.
func (a *GoogleAdapter) Name() string {
	return "google"
}

// Models returns the list of supported Gemini models.
func (a *GoogleAdapter) Models() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.0-pro",
	}
}

// Generate sends the request to Gemini. Each text part of the first candidate
// becomes one element of the returned sequence.
func (a *GoogleAdapter) Generate(ctx context.Context, req Request) (*Response, error) {
	var genCfg *genai.GenerateContentConfig
	if req.System != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		}
	}

	resp, err := a.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return nil, wrapGoogleError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("google returned no candidates")
	}

	var parts output.Sequence
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				parts = append(parts, output.NamedField{Name: "text", Text: part.Text})
			}
		}
	}

	var usage *Usage
	if meta := resp.UsageMetadata; meta != nil {
		usage = &Usage{
			PromptTokens:     int(meta.PromptTokenCount),
			CompletionTokens: int(meta.CandidatesTokenCount),
			TotalTokens:      int(meta.TotalTokenCount),
		}
	}

	return &Response{
		Adapter: a.Name(),
		Model:   req.Model,
		Result:  parts,
		Usage:   usage,
	}, nil
}

func wrapGoogleError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return newAdapterError("google", apiErr.Code, err)
	}
	return fmt.Errorf("google API error: %w", err)
}
