package adapter

import "context"

// Adapter defines the interface for LLM provider adapters.
type Adapter interface {
	// Generate sends a request to the model and returns its result.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models. The first entry is the default.
	Models() []string
}

// defaultMaxTokens caps completion length for providers that require a limit.
const defaultMaxTokens = 4096
