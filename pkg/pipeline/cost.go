package pipeline

import (
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/adapter"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/config"
)

type costTracker struct {
	pricing     config.PricingConfig
	totalUsage  adapter.Usage
	totalAmount float64
	currency    string
	calls       []adapter.CallReport
}

func newCostTracker(pricing config.PricingConfig) *costTracker {
	return &costTracker{
		pricing:  pricing,
		currency: "USD",
	}
}

// record accounts for one stage call and returns its estimated cost.
func (t *costTracker) record(stage, adapterName, model string, usage *adapter.Usage, callErr error) (adapter.Usage, adapter.Cost) {
	normalized := normalizeUsage(usage)
	cost, _ := estimateCost(t.pricing, adapterName, model, normalized)

	report := adapter.CallReport{
		Stage:   stage,
		Adapter: adapterName,
		Model:   model,
		Usage:   normalized,
		Cost:    cost,
	}
	if callErr != nil {
		report.Error = callErr.Error()
	}
	t.calls = append(t.calls, report)

	if callErr == nil {
		t.totalAmount += cost.Amount
		t.totalUsage = addUsage(t.totalUsage, normalized)
	}
	return normalized, cost
}

func (t *costTracker) total() adapter.Cost {
	return adapter.Cost{
		Currency:     t.currency,
		Amount:       t.totalAmount,
		IsEstimate:   true,
		PricingModel: "per_1k_tokens",
	}
}

func normalizeUsage(u *adapter.Usage) adapter.Usage {
	if u == nil {
		return adapter.Usage{}
	}
	usage := *u
	if usage.TotalTokens == 0 && (usage.PromptTokens > 0 || usage.CompletionTokens > 0) {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	return usage
}

func estimateCost(pricing config.PricingConfig, adapterName, model string, usage adapter.Usage) (adapter.Cost, bool) {
	entry, ok := pricingFor(pricing, adapterName, model)
	if !ok {
		return adapter.Cost{Currency: "USD"}, false
	}

	promptCost := (float64(usage.PromptTokens) / 1000.0) * entry.PromptPer1K
	completionCost := (float64(usage.CompletionTokens) / 1000.0) * entry.CompletionPer1K
	return adapter.Cost{
		Currency:     "USD",
		Amount:       promptCost + completionCost,
		IsEstimate:   true,
		PricingModel: "per_1k_tokens",
	}, true
}

func pricingFor(pricing config.PricingConfig, adapterName, model string) (config.ModelPricing, bool) {
	if pricing == nil {
		return config.ModelPricing{}, false
	}
	if adapterPricing, ok := pricing[adapterName]; ok {
		if entry, ok := adapterPricing[model]; ok {
			return entry, true
		}
		if entry, ok := adapterPricing["default"]; ok {
			return entry, true
		}
	}
	return config.ModelPricing{}, false
}

func addUsage(a adapter.Usage, b adapter.Usage) adapter.Usage {
	return adapter.Usage{
		PromptTokens:     a.PromptTokens + b.PromptTokens,
		CompletionTokens: a.CompletionTokens + b.CompletionTokens,
		TotalTokens:      a.TotalTokens + b.TotalTokens,
	}
}
