// File path: internal/provider/provider.go

// Package provider abstracts the analysis backend behind a narrow structured
// completion contract. Implementations must be safe for concurrent use; the
// engine fans out to them from multiple workers.
package provider

import (
	"context"
	"encoding/json"
)

// Request asks the backend for one structured completion.
type Request struct {
	System      string
	Prompt      string
	Schema      map[string]any
	SchemaName  string
	MaxTokens   int
	Temperature float64
}

// Response carries the raw structured payload plus reported token usage.
// Usage may be zero when the backend does not report it; callers fall back
// to EstimateTokens.
type Response struct {
	Raw              json.RawMessage
	PromptTokens     int64
	CompletionTokens int64
}

// Provider is the opaque analysis backend. Name identifies the backend for
// humans ("openai/gpt-4o-mini"); Model is the bare model identifier the
// pricing table and call log key on.
type Provider interface {
	CompleteStructured(ctx context.Context, req Request) (*Response, error)
	MaxConcurrent() int
	EstimateTokens(text string) int
	Name() string
	Model() string
}

// estimateTokens is the shared fallback heuristic of roughly four characters
// per token.
func estimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	estimate := len(text) / 4
	if estimate == 0 {
		estimate = 1
	}
	return estimate
}
