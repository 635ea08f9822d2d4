// File path: internal/format/json.go
package format

import (
	"encoding/json"
	"io"

	"codecritic/internal/issue"
	"codecritic/internal/scoring"
)

// JSONFormatter emits the full result document for machine consumers.
type JSONFormatter struct {
	calc *scoring.Calculator
}

type jsonDocument struct {
	Summary scoring.Summary `json:"summary"`
	Issues  []issue.Issue   `json:"issues"`
	Meta    map[string]any  `json:"meta,omitempty"`
}

func (f *JSONFormatter) Write(w io.Writer, result *issue.AnalysisResult) error {
	issues := result.Issues
	if issues == nil {
		issues = []issue.Issue{}
	}
	doc := jsonDocument{
		Summary: f.calc.Summarize(issues),
		Issues:  issues,
		Meta:    result.Meta,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
