// File path: internal/provider/schema.go
package provider

import (
	"encoding/json"
	"fmt"
)

// ResponseSchemaName labels the structured response schema for backends that
// require a named schema.
const ResponseSchemaName = "critic_response"

// CriticLocation is the source region a reported issue points at.
type CriticLocation struct {
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}

// CriticIssue is one finding as reported by the backend, before translation
// into the internal issue model.
type CriticIssue struct {
	RuleID     string         `json:"rule_id"`
	Level      string         `json:"level"`
	Location   CriticLocation `json:"location"`
	Title      string         `json:"title"`
	Why        string         `json:"why"`
	Do         []string       `json:"do"`
	Confidence float64        `json:"confidence"`
	Tags       []string       `json:"tags"`
}

// CriticResponse is the structured payload every backend must produce.
type CriticResponse struct {
	Issues []CriticIssue `json:"issues"`
}

// DecodeResponse parses the raw structured payload.
func DecodeResponse(raw json.RawMessage) (*CriticResponse, error) {
	var response CriticResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("decode critic response: %w", err)
	}
	return &response, nil
}

// ResponseSchema is the JSON schema sent to backends that support schema-
// constrained output.
func ResponseSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"issues"},
		"properties": map[string]any{
			"issues": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"rule_id", "level", "location", "title", "why", "do", "confidence", "tags"},
					"properties": map[string]any{
						"rule_id": map[string]any{"type": "string"},
						"level": map[string]any{
							"type": "string",
							"enum": []string{"blocker", "critical", "major", "minor", "info"},
						},
						"location": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []string{"start_line", "end_line"},
							"properties": map[string]any{
								"start_line": map[string]any{"type": "integer"},
								"end_line":   map[string]any{"type": "integer"},
							},
						},
						"title":      map[string]any{"type": "string"},
						"why":        map[string]any{"type": "string"},
						"do":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"confidence": map[string]any{"type": "number"},
						"tags":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
				},
			},
		},
	}
}
