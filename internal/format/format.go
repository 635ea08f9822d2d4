// File path: internal/format/format.go

// Package format renders analysis results for terminals and machine
// consumers.
package format

import (
	"fmt"
	"io"

	"codecritic/internal/issue"
	"codecritic/internal/scoring"
)

// Formatter writes one analysis result to w.
type Formatter interface {
	Write(w io.Writer, result *issue.AnalysisResult) error
}

// New returns the formatter for the given name ("text" or "json").
func New(name string, calc *scoring.Calculator) (Formatter, error) {
	if calc == nil {
		calc = scoring.NewCalculator()
	}
	switch name {
	case "", "text":
		return &TextFormatter{calc: calc}, nil
	case "json":
		return &JSONFormatter{calc: calc}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
}
