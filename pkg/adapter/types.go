package adapter

import "github.com/SuhaibK10/startup-idea-evaluator/pkg/output"

// Request is a single synchronous completion call.
type Request struct {
	Model  string
	System string
	Prompt string
}

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" yaml:"total_tokens"`
}

// Cost captures normalized cost estimates.
type Cost struct {
	Currency     string  `json:"currency" yaml:"currency"`
	Amount       float64 `json:"amount" yaml:"amount"`
	IsEstimate   bool    `json:"is_estimate" yaml:"is_estimate"`
	PricingModel string  `json:"pricing_model,omitempty" yaml:"pricing_model,omitempty"`
}

// CallReport captures adapter call metadata.
type CallReport struct {
	Stage   string `json:"stage" yaml:"stage"`
	Adapter string `json:"adapter" yaml:"adapter"`
	Model   string `json:"model" yaml:"model"`
	Usage   Usage  `json:"usage" yaml:"usage"`
	Cost    Cost   `json:"cost" yaml:"cost"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Response wraps an adapter result and optional usage data.
type Response struct {
	Adapter string
	Model   string
	Result  output.Result
	Usage   *Usage
}
