package observability

import (
	"sort"
	"strings"

	"github.com/Conceptual-Machines/storyforge-api/internal/llm"
)

const (
	tokensPerKilo = 1000.0

	defaultPricingModel = "gemini-2.5-pro"
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for the text and image models we route to.
// Keys are model prefixes; the longest matching prefix wins.
var PricingTable = map[string]ModelPricing{
	"gemini-2.5-pro":         {InputPricePer1K: 0.00125, OutputPricePer1K: 0.01},
	"gemini-2.5-flash":       {InputPricePer1K: 0.0003, OutputPricePer1K: 0.0025},
	"gemini-2.5-flash-image": {InputPricePer1K: 0.0003, OutputPricePer1K: 0.03},
	"gpt-4.1":                {InputPricePer1K: 0.002, OutputPricePer1K: 0.008},
	"gpt-4.1-mini":           {InputPricePer1K: 0.0004, OutputPricePer1K: 0.0016},
	"gpt-4o":                 {InputPricePer1K: 0.005, OutputPricePer1K: 0.015},
	"gpt-4o-mini":            {InputPricePer1K: 0.00015, OutputPricePer1K: 0.0006},
	"gpt-image-1":            {InputPricePer1K: 0.005, OutputPricePer1K: 0.04},
}

// pricingFor resolves a model name to its pricing entry by longest prefix,
// falling back to gemini-2.5-pro
func pricingFor(modelName string) ModelPricing {
	modelLower := strings.ToLower(modelName)
	prefixes := make([]string, 0, len(PricingTable))
	for prefix := range PricingTable {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, prefix := range prefixes {
		if strings.HasPrefix(modelLower, prefix) {
			return PricingTable[prefix]
		}
	}
	return PricingTable[defaultPricingModel]
}

// CalculateCost calculates the cost in USD for one model call
func CalculateCost(modelName string, usage llm.Usage) float64 {
	pricing := pricingFor(modelName)
	inputCost := (float64(usage.InputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.OutputTokens) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}
