// File path: internal/provider/local.go
package provider

import (
	"context"
	"encoding/json"
)

// LocalProvider is the offline fallback. It reports no issues and never
// fails, so runs without an API key still complete with a clean result.
type LocalProvider struct{}

// NewLocalProvider returns the stub provider.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) CompleteStructured(ctx context.Context, req Request) (*Response, error) {
	empty, _ := json.Marshal(CriticResponse{Issues: []CriticIssue{}})
	return &Response{
		Raw:          json.RawMessage(empty),
		PromptTokens: int64(estimateTokens(req.Prompt)),
	}, nil
}

func (l *LocalProvider) MaxConcurrent() int {
	return 1
}

func (l *LocalProvider) EstimateTokens(text string) int {
	return estimateTokens(text)
}

func (l *LocalProvider) Name() string {
	return "local"
}

// Model returns the stub model identifier for call logging.
func (l *LocalProvider) Model() string {
	return "local"
}
