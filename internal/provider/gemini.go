// File path: internal/provider/gemini.go
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"codecritic/internal/common"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider runs structured completions against the Gemini API,
// requesting application/json output and retrying transient failures.
type GeminiProvider struct {
	client        *genai.Client
	model         string
	maxConcurrent int
}

// NewGeminiProvider builds a provider from the given API key.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	model := strings.TrimSpace(os.Getenv("CODECRITIC_MODEL"))
	if model == "" {
		model = defaultGeminiModel
	}
	p := &GeminiProvider{
		client:        client,
		model:         model,
		maxConcurrent: concurrencyFromEnv(),
	}
	common.Logger().Info("provider: Gemini configured", "model", model, "max_concurrent", p.maxConcurrent)
	return p, nil
}

func (p *GeminiProvider) CompleteStructured(ctx context.Context, req Request) (*Response, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	contents := []*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
		if err != nil {
			lastErr = err
			continue
		}
		text := resp.Text()
		if !json.Valid([]byte(text)) {
			lastErr = fmt.Errorf("gemini completion: response is not valid JSON")
			continue
		}
		out := &Response{Raw: json.RawMessage(text)}
		if resp.UsageMetadata != nil {
			out.PromptTokens = int64(resp.UsageMetadata.PromptTokenCount)
			out.CompletionTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
		}
		return out, nil
	}
	return nil, fmt.Errorf("gemini completion: %w", lastErr)
}

func (p *GeminiProvider) MaxConcurrent() int {
	return p.maxConcurrent
}

func (p *GeminiProvider) EstimateTokens(text string) int {
	return estimateTokens(text)
}

func (p *GeminiProvider) Name() string {
	return "gemini/" + p.model
}

// Model returns the configured model identifier for call logging.
func (p *GeminiProvider) Model() string {
	return p.model
}
