package llm

import (
	"sort"

	"github.com/abhisek/learncricket/internal/store"
)

// ModelCost holds per-million-token pricing for a model in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the models the friendly names resolve to, plus a few
// common direct IDs.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-opus-4-5-20251101":   {5, 25},
	"claude-3-5-haiku-latest":    {0.8, 4},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-5-mini":   {0.25, 2},

	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
	"gemini-2.0-flash":      {0.1, 0.4},
}

// ModelUsage totals LLM requests for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64

	// Cost is nil when the model has no known pricing.
	Cost *float64
}

// SummarizeUsage groups events by model, most calls first.
func SummarizeUsage(events []store.LLMRequestEvent) []ModelUsage {
	byModel := make(map[string]*ModelUsage)
	latency := make(map[string]int64)
	for _, e := range events {
		u, ok := byModel[e.Model]
		if !ok {
			u = &ModelUsage{Model: e.Model}
			byModel[e.Model] = u
		}
		u.Calls++
		if !e.Success {
			u.Failures++
		}
		u.InputTokens += e.InputTokens
		u.OutputTokens += e.OutputTokens
		latency[e.Model] += e.LatencyMs
	}

	out := make([]ModelUsage, 0, len(byModel))
	for model, u := range byModel {
		u.AvgLatencyMs = latency[model] / int64(u.Calls)
		if c := LookupCost(model); c != nil {
			cost := c.Cost(u.InputTokens, u.OutputTokens)
			u.Cost = &cost
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Model < out[j].Model
	})
	return out
}
