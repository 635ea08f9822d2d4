// File path: internal/provider/openai.go
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"codecritic/internal/common"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider runs structured completions against the OpenAI chat API
// with a JSON-schema constrained response format.
type OpenAIProvider struct {
	client        openai.Client
	model         string
	maxConcurrent int
}

// NewOpenAIProvider builds a provider from the given API key. Model and
// concurrency come from CODECRITIC_MODEL / CODECRITIC_MAX_CONCURRENT.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	if raw := strings.TrimSpace(os.Getenv("OPENAI_HTTP_TIMEOUT")); raw != "" {
		if timeout, err := time.ParseDuration(raw); err == nil {
			opts = append(opts, option.WithRequestTimeout(timeout))
		} else {
			common.Logger().Warn("provider: invalid OPENAI_HTTP_TIMEOUT, using default", "value", raw, "error", err)
		}
	}
	model := strings.TrimSpace(os.Getenv("CODECRITIC_MODEL"))
	if model == "" {
		model = defaultOpenAIModel
	}
	p := &OpenAIProvider{
		client:        openai.NewClient(opts...),
		model:         model,
		maxConcurrent: concurrencyFromEnv(),
	}
	common.Logger().Info("provider: OpenAI configured", "model", model, "max_concurrent", p.maxConcurrent)
	return p
}

func (p *OpenAIProvider) CompleteStructured(ctx context.Context, req Request) (*Response, error) {
	schemaName := req.SchemaName
	if schemaName == "" {
		schemaName = ResponseSchemaName
	}
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(req.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.System != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(req.System))
	}
	params.Messages = append(params.Messages, openai.UserMessage(req.Prompt))

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai completion: no choices returned")
	}
	content := resp.Choices[0].Message.Content
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("openai completion: response is not valid JSON")
	}
	return &Response{
		Raw:              json.RawMessage(content),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (p *OpenAIProvider) MaxConcurrent() int {
	return p.maxConcurrent
}

func (p *OpenAIProvider) EstimateTokens(text string) int {
	return estimateTokens(text)
}

func (p *OpenAIProvider) Name() string {
	return "openai/" + p.model
}

// Model returns the configured model identifier for call logging.
func (p *OpenAIProvider) Model() string {
	return p.model
}
