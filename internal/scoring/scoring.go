// File path: internal/scoring/scoring.go

// Package scoring reduces a list of findings into a 0-100 quality score and
// a pass/fail gate decision. Everything here is a pure function of its
// inputs.
package scoring

import (
	"fmt"

	"codecritic/internal/issue"
)

// levelWeights is the score penalty charged per finding at each severity.
var levelWeights = map[issue.Severity]int{
	issue.SeverityBlocker:  25,
	issue.SeverityCritical: 15,
	issue.SeverityMajor:    8,
	issue.SeverityMinor:    3,
	issue.SeverityInfo:     0,
}

// DefaultFailLevels are the severities that fail the gate when present.
var DefaultFailLevels = []issue.Severity{
	issue.SeverityBlocker,
	issue.SeverityCritical,
	issue.SeverityMajor,
}

// DefaultScoreThreshold is the minimum score required to pass the gate.
const DefaultScoreThreshold = 70

// Calculate returns the quality score for a set of findings: 100 minus the
// per-severity penalty for each finding, floored at 0. No findings is a
// perfect score.
func Calculate(issues []issue.Issue) int {
	score := 100
	for _, is := range issues {
		score -= levelWeights[is.Severity]
	}
	if score < 0 {
		score = 0
	}
	return score
}

// CheckGate evaluates the gate policy. For every configured fail level with
// at least one finding a human-readable reason is appended; a score below
// the threshold appends one more. A negative threshold disables the score
// check so only the fail levels gate the run. The gate passes iff no reasons
// accumulate.
func CheckGate(issues []issue.Issue, failLevels []issue.Severity, scoreThreshold int) (bool, []string) {
	if failLevels == nil {
		failLevels = DefaultFailLevels
	}
	reasons := []string{}
	for _, level := range failLevels {
		count := 0
		for _, is := range issues {
			if is.Severity == level {
				count++
			}
		}
		if count > 0 {
			reasons = append(reasons, fmt.Sprintf("%d %s issue(s)", count, level))
		}
	}
	if scoreThreshold >= 0 {
		if score := Calculate(issues); score < scoreThreshold {
			reasons = append(reasons, fmt.Sprintf("Score %d below threshold %d", score, scoreThreshold))
		}
	}
	return len(reasons) == 0, reasons
}

// Calculator bundles a gate policy so the engine evaluates every run against
// the same configuration.
type Calculator struct {
	FailLevels     []issue.Severity
	ScoreThreshold int
}

// NewCalculator returns a calculator with the default gate policy.
func NewCalculator() *Calculator {
	return &Calculator{
		FailLevels:     DefaultFailLevels,
		ScoreThreshold: DefaultScoreThreshold,
	}
}

// Calculate returns the quality score for the findings.
func (c *Calculator) Calculate(issues []issue.Issue) int {
	return Calculate(issues)
}

// CheckGate evaluates the findings against the configured policy. A zero
// threshold means unset and falls back to the default; a negative threshold
// disables the score check entirely.
func (c *Calculator) CheckGate(issues []issue.Issue) (bool, []string) {
	threshold := c.ScoreThreshold
	if threshold == 0 {
		threshold = DefaultScoreThreshold
	}
	return CheckGate(issues, c.FailLevels, threshold)
}

// Summary describes a scored set of findings for rendering.
type Summary struct {
	Score       int            `json:"score"`
	MaxScore    int            `json:"max_score"`
	Gate        string         `json:"gate"`
	FailReasons []string       `json:"fail_reasons"`
	Counts      map[string]int `json:"counts"`
	TotalIssues int            `json:"total_issues"`
}

// Summarize computes score, gate, and per-level counts in one pass.
func (c *Calculator) Summarize(issues []issue.Issue) Summary {
	passed, reasons := c.CheckGate(issues)
	gate := "fail"
	if passed {
		gate = "pass"
	}
	return Summary{
		Score:       c.Calculate(issues),
		MaxScore:    100,
		Gate:        gate,
		FailReasons: reasons,
		Counts:      issue.CountByLevel(issues),
		TotalIssues: len(issues),
	}
}
