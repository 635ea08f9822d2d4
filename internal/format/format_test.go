// File path: internal/format/format_test.go
package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"codecritic/internal/issue"
	"codecritic/internal/scoring"
)

func sampleResult() *issue.AnalysisResult {
	return &issue.AnalysisResult{
		Issues: []issue.Issue{
			{
				RuleID:   "golang/error-handling",
				Severity: issue.SeverityMajor,
				Location: issue.Location{Path: "internal/server.go", StartLine: 12, EndLine: 14},
				Title:    "Error silently discarded",
				Why:      "The caller cannot react to the failure.",
				Do:       []string{"Return the error."},
			},
			{
				RuleID:   "general/todo-debt",
				Severity: issue.SeverityMinor,
				Location: issue.Location{Path: "cmd/main.go", StartLine: 3},
				Title:    "Stale TODO",
			},
		},
		Score:       89,
		GatePassed:  false,
		FailReasons: []string{"1 major issue(s)"},
		Meta:        map[string]any{"files_analyzed": 2, "cache_hits": 0, "llm_calls": 2, "duration_ms": int64(5)},
	}
}

func TestNewUnknownFormat(t *testing.T) {
	if _, err := New("xml", nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestTextFormatter(t *testing.T) {
	formatter, err := New("text", scoring.NewCalculator())
	if err != nil {
		t.Fatalf("new formatter: %v", err)
	}
	var buf bytes.Buffer
	if err := formatter.Write(&buf, sampleResult()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Score: 89/100",
		"internal/server.go",
		"Error silently discarded",
		"golang/error-handling",
		"Gate: FAIL",
		"1 major issue(s)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFormatterCleanRun(t *testing.T) {
	formatter, err := New("text", nil)
	if err != nil {
		t.Fatalf("new formatter: %v", err)
	}
	var buf bytes.Buffer
	result := &issue.AnalysisResult{Issues: []issue.Issue{}, Score: 100, GatePassed: true}
	if err := formatter.Write(&buf, result); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No issues found.") || !strings.Contains(out, "Gate: PASS") {
		t.Fatalf("unexpected clean output:\n%s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	formatter, err := New("json", scoring.NewCalculator())
	if err != nil {
		t.Fatalf("new formatter: %v", err)
	}
	var buf bytes.Buffer
	if err := formatter.Write(&buf, sampleResult()); err != nil {
		t.Fatalf("write: %v", err)
	}

	var doc struct {
		Summary scoring.Summary `json:"summary"`
		Issues  []issue.Issue   `json:"issues"`
		Meta    map[string]any  `json:"meta"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if doc.Summary.Score != 89 || doc.Summary.Gate != "fail" {
		t.Fatalf("unexpected summary: %+v", doc.Summary)
	}
	if len(doc.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(doc.Issues))
	}
	if doc.Issues[0].Severity != issue.SeverityMajor {
		t.Fatalf("severity lost in encoding: %+v", doc.Issues[0])
	}
	if doc.Meta["files_analyzed"] != float64(2) {
		t.Fatalf("meta lost: %v", doc.Meta)
	}
}
