package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/output"
)

const chatCompletionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "openai/gpt-4o-mini",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Verdict: green"}}
  ],
  "usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
}`

func TestOpenAIAdapterSendsAttributionHeaders(t *testing.T) {
	var (
		gotPath    string
		gotAuth    string
		gotReferer string
		gotTitle   string
		gotBody    map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody))
	}))
	defer server.Close()

	a, err := NewOpenAIAdapter(OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/api/v1/",
		Headers: map[string]string{"HTTP-Referer": "https://example.com", "X-Title": "StartupIdeaEvaluator"},
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	resp, err := a.Generate(context.Background(), Request{
		Model:  "openai/gpt-4o-mini",
		System: "You are a PM.",
		Prompt: "Evaluate the problem.",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if gotPath != "/api/v1/chat/completions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected authorization %q", gotAuth)
	}
	if gotReferer != "https://example.com" || gotTitle != "StartupIdeaEvaluator" {
		t.Fatalf("unexpected attribution headers %q %q", gotReferer, gotTitle)
	}
	if gotBody["model"] != "openai/gpt-4o-mini" {
		t.Fatalf("unexpected model %v", gotBody["model"])
	}
	messages, ok := gotBody["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %v", gotBody["messages"])
	}

	if got := output.Text(resp.Result); got != "Verdict: green" {
		t.Fatalf("unexpected text %q", got)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 17 || resp.Usage.PromptTokens != 12 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
}

func TestOpenAIAdapterOmitsEmptyHeaders(t *testing.T) {
	var sawReferer bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawReferer = r.Header["Http-Referer"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody))
	}))
	defer server.Close()

	a, err := NewOpenAIAdapter(OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/",
		Headers: map[string]string{"HTTP-Referer": ""},
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	if _, err := a.Generate(context.Background(), Request{Model: "m", Prompt: "p"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if sawReferer {
		t.Fatalf("expected empty referer header to be omitted")
	}
}

func TestOpenAIAdapterWrapsStatusErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit"}}`))
	}))
	defer server.Close()

	a, err := NewOpenAIAdapter(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	_, err = a.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var adapterErr *AdapterError
	if !errors.As(err, &adapterErr) || adapterErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected AdapterError with status 429, got %v", err)
	}
	if !IsTransient(err) {
		t.Fatalf("expected 429 to be transient")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestOpenAIAdapterRequiresKey(t *testing.T) {
	if _, err := NewOpenAIAdapter(OpenAIConfig{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestOpenAIAdapterModelsListsConfiguredFirst(t *testing.T) {
	a, err := NewOpenAIAdapter(OpenAIConfig{APIKey: "k", Model: "meta-llama/llama-3.1-70b"})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	if got := a.Models()[0]; got != "meta-llama/llama-3.1-70b" {
		t.Fatalf("expected configured model first, got %q", got)
	}
}
