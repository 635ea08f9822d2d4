// File path: internal/cache/types.go
package cache

import (
	"encoding/json"
	"time"
)

// CacheStats reports live entry count and approximate on-disk size.
type CacheStats struct {
	Entries   int64 `json:"entries"`
	SizeBytes int64 `json:"size_bytes"`
}

// CostSummary aggregates provider usage over a trailing window.
type CostSummary struct {
	TotalCalls  int64   `json:"total_calls"`
	TotalTokens int64   `json:"total_tokens"`
	TotalCost   float64 `json:"total_cost"`
	TotalIssues int64   `json:"total_issues"`
}

// CallRecord describes one provider invocation to be appended to the log.
// CostUSD nil means "compute from the pricing table".
type CallRecord struct {
	Model            string
	Pack             string
	Files            []string
	PromptTokens     int64
	CompletionTokens int64
	DurationMS       int64
	IssuesFound      int64
	CostUSD          *float64
	Cached           bool
}

// CallLog is one persisted provider-call row.
type CallLog struct {
	ID               int64   `db:"id" json:"id"`
	CreatedAt        int64   `db:"created_at" json:"created_at"`
	Model            string  `db:"model" json:"model"`
	Pack             string  `db:"pack" json:"pack"`
	Files            string  `db:"files" json:"-"`
	PromptTokens     int64   `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int64   `db:"completion_tokens" json:"completion_tokens"`
	TotalTokens      int64   `db:"total_tokens" json:"total_tokens"`
	CostUSD          float64 `db:"cost_usd" json:"cost_usd"`
	DurationMS       int64   `db:"duration_ms" json:"duration_ms"`
	IssuesFound      int64   `db:"issues_found" json:"issues_found"`
	Cached           bool    `db:"cached" json:"cached"`
}

// FileList decodes the JSON-encoded file list of the log row.
func (l CallLog) FileList() []string {
	var files []string
	if err := json.Unmarshal([]byte(l.Files), &files); err != nil {
		return nil
	}
	return files
}

// Timestamp returns the row creation time.
func (l CallLog) Timestamp() time.Time {
	return time.Unix(l.CreatedAt, 0).UTC()
}
