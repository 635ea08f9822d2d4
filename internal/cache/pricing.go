// File path: internal/cache/pricing.go
package cache

// modelPricing is USD per 1K tokens.
type modelPricing struct {
	prompt     float64
	completion float64
}

// pricingTable covers the models we expect to see in call logs. An unknown
// model prices at zero; it is not an error.
var pricingTable = map[string]modelPricing{
	"gpt-4o":           {prompt: 0.0025, completion: 0.01},
	"gpt-4o-mini":      {prompt: 0.00015, completion: 0.0006},
	"gpt-4.1":          {prompt: 0.002, completion: 0.008},
	"gpt-4.1-mini":     {prompt: 0.0004, completion: 0.0016},
	"gemini-2.0-flash": {prompt: 0.0001, completion: 0.0004},
	"gemini-1.5-pro":   {prompt: 0.00125, completion: 0.005},
}

// estimateCost prices a call from the token counts. Unknown models cost 0.
func estimateCost(model string, promptTokens, completionTokens int64) float64 {
	pricing, ok := pricingTable[model]
	if !ok {
		return 0
	}
	return float64(promptTokens)/1000*pricing.prompt + float64(completionTokens)/1000*pricing.completion
}
