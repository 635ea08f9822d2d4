// File path: internal/scoring/scoring_test.go
package scoring

import (
	"strings"
	"testing"

	"codecritic/internal/issue"
)

func issuesOf(levels ...issue.Severity) []issue.Issue {
	out := make([]issue.Issue, 0, len(levels))
	for i, level := range levels {
		out = append(out, issue.Issue{
			RuleID:   "test/rule",
			Severity: level,
			Location: issue.Location{Path: "main.go", StartLine: i + 1},
			Title:    "test finding",
		})
	}
	return out
}

func TestCalculateEmptyIsPerfect(t *testing.T) {
	if got := Calculate(nil); got != 100 {
		t.Fatalf("expected 100 for no issues, got %d", got)
	}
}

func TestCalculatePenalties(t *testing.T) {
	cases := []struct {
		level issue.Severity
		want  int
	}{
		{issue.SeverityBlocker, 75},
		{issue.SeverityCritical, 85},
		{issue.SeverityMajor, 92},
		{issue.SeverityMinor, 97},
		{issue.SeverityInfo, 100},
	}
	for _, tc := range cases {
		if got := Calculate(issuesOf(tc.level)); got != tc.want {
			t.Fatalf("one %s issue: expected %d, got %d", tc.level, tc.want, got)
		}
	}
}

func TestCalculateFloorsAtZero(t *testing.T) {
	levels := make([]issue.Severity, 10)
	for i := range levels {
		levels[i] = issue.SeverityBlocker
	}
	if got := Calculate(issuesOf(levels...)); got != 0 {
		t.Fatalf("expected floor at 0, got %d", got)
	}
}

func TestCheckGatePassesClean(t *testing.T) {
	passed, reasons := CheckGate(nil, DefaultFailLevels, DefaultScoreThreshold)
	if !passed {
		t.Fatalf("expected pass, got fail: %v", reasons)
	}
	if len(reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", reasons)
	}
}

func TestCheckGateFailsOnBlocker(t *testing.T) {
	passed, reasons := CheckGate(issuesOf(issue.SeverityBlocker), DefaultFailLevels, DefaultScoreThreshold)
	if passed {
		t.Fatal("expected gate failure with a blocker present")
	}
	found := false
	for _, reason := range reasons {
		if strings.Contains(reason, "blocker") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a blocker reason, got %v", reasons)
	}
}

func TestCheckGateFailsBelowThreshold(t *testing.T) {
	// Three minors keep the count-based checks quiet but land at 91; with a
	// raised threshold the score alone fails the gate.
	passed, reasons := CheckGate(issuesOf(issue.SeverityMinor, issue.SeverityMinor, issue.SeverityMinor),
		[]issue.Severity{issue.SeverityBlocker}, 95)
	if passed {
		t.Fatal("expected gate failure below threshold")
	}
	if len(reasons) != 1 || !strings.Contains(reasons[0], "below threshold") {
		t.Fatalf("expected a threshold reason, got %v", reasons)
	}
}

func TestCheckGateRespectsConfiguredLevels(t *testing.T) {
	// Majors fail by default; a blocker-only policy lets them through.
	passed, _ := CheckGate(issuesOf(issue.SeverityMajor), []issue.Severity{issue.SeverityBlocker}, 50)
	if !passed {
		t.Fatal("major should pass under a blocker-only policy")
	}
}

func TestCheckGateNegativeThresholdDisablesScoreCheck(t *testing.T) {
	levels := make([]issue.Severity, 10)
	for i := range levels {
		levels[i] = issue.SeverityBlocker
	}
	// Score is floored at 0, but with the score check disabled and no
	// configured fail levels the gate still passes.
	passed, reasons := CheckGate(issuesOf(levels...), []issue.Severity{}, -1)
	if !passed {
		t.Fatalf("negative threshold must disable the score check, got %v", reasons)
	}
}

func TestCalculatorNegativeThresholdPreserved(t *testing.T) {
	calc := &Calculator{FailLevels: []issue.Severity{}, ScoreThreshold: -1}
	passed, reasons := calc.CheckGate(issuesOf(issue.SeverityBlocker, issue.SeverityBlocker))
	if !passed {
		t.Fatalf("calculator must not replace an explicit -1 threshold, got %v", reasons)
	}
}

func TestSummarize(t *testing.T) {
	calc := NewCalculator()
	summary := calc.Summarize(issuesOf(issue.SeverityCritical, issue.SeverityMinor))
	if summary.Score != 82 {
		t.Fatalf("expected score 82, got %d", summary.Score)
	}
	if summary.Gate != "fail" {
		t.Fatalf("expected gate fail, got %s", summary.Gate)
	}
	if summary.Counts["critical"] != 1 || summary.Counts["minor"] != 1 {
		t.Fatalf("unexpected counts: %v", summary.Counts)
	}
	if summary.TotalIssues != 2 {
		t.Fatalf("expected 2 issues, got %d", summary.TotalIssues)
	}
}
