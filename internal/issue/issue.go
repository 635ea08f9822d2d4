// File path: internal/issue/issue.go
package issue

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Location points at the source region a finding refers to.
type Location struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line,omitempty"`
}

// Issue is a single reported quality problem. Issues are immutable after
// translation from a provider response; downstream stages only filter and
// reorder them.
type Issue struct {
	RuleID     string   `json:"rule_id"`
	Severity   Severity `json:"level"`
	Location   Location `json:"location"`
	Title      string   `json:"title"`
	Why        string   `json:"why,omitempty"`
	Do         []string `json:"do,omitempty"`
	Pack       string   `json:"pack,omitempty"`
	Source     string   `json:"source,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Snippet    string   `json:"snippet,omitempty"`
	Context    string   `json:"context,omitempty"`
}

// ID derives the stable identity used for deduplication. It depends only on
// the rule, the location, and the title, so identical provider output for
// identical input always collapses to one finding regardless of whether it
// came from the cache or a fresh call.
func (i Issue) ID() string {
	hasher := sha256.New()
	for _, part := range []string{i.RuleID, i.Location.Path, fmt.Sprintf("%d", i.Location.StartLine), i.Title} {
		hasher.Write([]byte(part))
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:12]
}

// CountByLevel tallies issues per severity level.
func CountByLevel(issues []Issue) map[string]int {
	counts := make(map[string]int)
	for _, is := range issues {
		counts[is.Severity.String()]++
	}
	return counts
}
