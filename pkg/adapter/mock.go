package adapter

import (
	"context"
	"fmt"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/output"
)

// MockAdapter returns deterministic responses for local runs and tests.
type MockAdapter struct {
	responses       map[string]string
	defaultResponse string
	Usage           *Usage
}

// NewMockAdapter creates a mock adapter with a default response.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with predefined responses keyed by prompt.
func NewMockAdapterWithResponses(responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response:"
	}
	return &MockAdapter{responses: responses, defaultResponse: defaultResponse}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Generate returns a deterministic result for the prompt.
func (a *MockAdapter) Generate(_ context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = "mock-1"
	}
	content, ok := a.responses[req.Prompt]
	if !ok {
		content = fmt.Sprintf("%s\n%s", a.defaultResponse, req.Prompt)
	}
	return &Response{
		Adapter: a.Name(),
		Model:   model,
		Result:  output.RawText{Text: content},
		Usage:   a.Usage,
	}, nil
}
