package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/output"
)

func newGoogleTestServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("GOOGLE_GEMINI_BASE_URL", server.URL+"/")
}

func TestGoogleAdapterJoinsTextParts(t *testing.T) {
	newGoogleTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "candidates": [{"content": {"role": "model", "parts": [{"text": "Verdict: green"}, {"text": "Urgency: high"}]}}],
  "usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 5, "totalTokenCount": 17}
}`))
	})

	a, err := NewGoogleAdapter(context.Background(), "test-key", 0)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	resp, err := a.Generate(context.Background(), Request{Model: "gemini-2.5-flash", System: "You are a PM.", Prompt: "Evaluate."})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := output.Normalize(resp.Result); got != "Verdict: green\n\nUrgency: high" {
		t.Fatalf("unexpected text %q", got)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 17 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
}

func TestGoogleAdapterHonorsTimeout(t *testing.T) {
	newGoogleTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	a, err := NewGoogleAdapter(context.Background(), "test-key", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	if a.timeout != 50*time.Millisecond {
		t.Fatalf("expected timeout stored, got %s", a.timeout)
	}

	start := time.Now()
	_, err = a.Generate(context.Background(), Request{Model: "gemini-2.5-flash", Prompt: "Evaluate."})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("request not bounded by timeout, took %s", elapsed)
	}
	if !IsTransient(err) {
		t.Fatalf("expected timeout to be transient, got %v", err)
	}
}

func TestGoogleAdapterWrapsStatusErrors(t *testing.T) {
	newGoogleTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	})

	a, err := NewGoogleAdapter(context.Background(), "test-key", time.Second)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	_, err = a.Generate(context.Background(), Request{Model: "gemini-2.5-flash", Prompt: "Evaluate."})
	var adapterErr *AdapterError
	if !errors.As(err, &adapterErr) || adapterErr.Status != http.StatusTooManyRequests || adapterErr.Provider != "google" {
		t.Fatalf("expected google AdapterError with status 429, got %v", err)
	}
	if !IsTransient(err) {
		t.Fatalf("expected 429 to be transient")
	}
}

func TestGoogleAdapterRequiresKey(t *testing.T) {
	if _, err := NewGoogleAdapter(context.Background(), "", time.Second); err == nil {
		t.Fatalf("expected error without API key")
	}
}
