package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/adapter"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/config"
)

func TestEstimateCostAndTotals(t *testing.T) {
	pricing := config.PricingConfig{
		"openai": {
			"openai/gpt-4o-mini": {
				PromptPer1K:     0.15,
				CompletionPer1K: 0.60,
			},
		},
	}

	usage := adapter.Usage{PromptTokens: 1000, CompletionTokens: 500}
	cost, ok := estimateCost(pricing, "openai", "openai/gpt-4o-mini", usage)
	if !ok {
		t.Fatalf("expected pricing match")
	}
	want := 0.15 + 0.30
	if math.Abs(cost.Amount-want) > 1e-6 {
		t.Fatalf("cost amount mismatch: got %.4f want %.4f", cost.Amount, want)
	}

	tracker := newCostTracker(pricing)
	tracker.record("validate", "openai", "openai/gpt-4o-mini", &usage, nil)
	tracker.record("research", "openai", "openai/gpt-4o-mini", &usage, nil)
	tracker.record("business_model", "openai", "openai/gpt-4o-mini", nil, errors.New("boom"))

	total := tracker.total()
	if math.Abs(total.Amount-2*want) > 1e-6 {
		t.Fatalf("total amount mismatch: got %.4f want %.4f", total.Amount, 2*want)
	}
	if tracker.totalUsage.TotalTokens != 3000 {
		t.Fatalf("expected normalized total tokens 3000, got %d", tracker.totalUsage.TotalTokens)
	}
	if len(tracker.calls) != 3 || tracker.calls[2].Error != "boom" {
		t.Fatalf("expected failed call recorded, got %+v", tracker.calls)
	}
}

func TestPricingDefaultModel(t *testing.T) {
	pricing := config.PricingConfig{
		"anthropic": {"default": {PromptPer1K: 3, CompletionPer1K: 15}},
	}
	if _, ok := pricingFor(pricing, "anthropic", "claude-sonnet-4-20250514"); !ok {
		t.Fatalf("expected default pricing entry")
	}
	if _, ok := pricingFor(pricing, "google", "gemini-2.5-flash"); ok {
		t.Fatalf("expected no pricing for unknown adapter")
	}
	cost, ok := estimateCost(nil, "openai", "m", adapter.Usage{PromptTokens: 10})
	if ok || cost.Amount != 0 || cost.Currency != "USD" {
		t.Fatalf("expected zero cost without pricing, got %+v", cost)
	}
}
