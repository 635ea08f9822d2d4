// File path: internal/engine/snippet.go
package engine

import (
	"strings"
)

const (
	snippetMaxLines = 10
	contextRadius   = 2
)

// extractSnippet returns the source lines a finding spans, capped at
// snippetMaxLines. Lines are 1-based; out-of-range requests yield "".
func extractSnippet(content string, startLine, endLine int) string {
	lines := strings.Split(content, "\n")
	if startLine < 1 || startLine > len(lines) {
		return ""
	}
	if endLine < startLine {
		endLine = startLine
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if endLine-startLine+1 > snippetMaxLines {
		endLine = startLine + snippetMaxLines - 1
	}
	return strings.Join(lines[startLine-1:endLine], "\n")
}

// extractContext returns the finding's line with a couple of surrounding
// lines for display.
func extractContext(content string, startLine int) string {
	lines := strings.Split(content, "\n")
	if startLine < 1 || startLine > len(lines) {
		return ""
	}
	from := startLine - 1 - contextRadius
	if from < 0 {
		from = 0
	}
	to := startLine + contextRadius
	if to > len(lines) {
		to = len(lines)
	}
	return strings.Join(lines[from:to], "\n")
}
