// File path: internal/issue/result.go
package issue

// AnalysisResult is the final output of one analysis run. It is assembled
// once at the end of the pipeline and never mutated afterwards.
type AnalysisResult struct {
	Issues      []Issue        `json:"issues"`
	Score       int            `json:"score"`
	GatePassed  bool           `json:"gate_passed"`
	FailReasons []string       `json:"fail_reasons"`
	Meta        map[string]any `json:"meta"`
}

// Gate returns the gate outcome as a short status string.
func (r *AnalysisResult) Gate() string {
	if r.GatePassed {
		return "pass"
	}
	return "fail"
}
