// File path: internal/engine/postprocess.go
package engine

import (
	"sort"
	"strings"

	"codecritic/internal/issue"
)

// filterByRules keeps findings whose rule id contains any filter entry.
// Substring match is deliberate so "golang/" selects a whole pack.
func filterByRules(issues []issue.Issue, filter []string) []issue.Issue {
	kept := issues[:0:0]
	for _, is := range issues {
		for _, f := range filter {
			if strings.Contains(is.RuleID, f) {
				kept = append(kept, is)
				break
			}
		}
	}
	return kept
}

// dropDisabled removes findings whose rule id is disabled (exact match).
func dropDisabled(issues []issue.Issue, disabled []string) []issue.Issue {
	disabledSet := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		disabledSet[id] = true
	}
	kept := issues[:0:0]
	for _, is := range issues {
		if !disabledSet[is.RuleID] {
			kept = append(kept, is)
		}
	}
	return kept
}

// deduplicate keeps the first occurrence of each derived identity,
// preserving order.
func deduplicate(issues []issue.Issue) []issue.Issue {
	seen := make(map[string]bool, len(issues))
	unique := issues[:0:0]
	for _, is := range issues {
		id := is.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, is)
	}
	return unique
}

// limitPerFile keeps at most limit findings per file, preferring higher
// severity. Files stay in first-appearance order; only entries within one
// file's group are reordered and truncated.
func limitPerFile(issues []issue.Issue, limit int) []issue.Issue {
	byFile := make(map[string][]issue.Issue)
	var fileOrder []string
	for _, is := range issues {
		path := is.Location.Path
		if _, seen := byFile[path]; !seen {
			fileOrder = append(fileOrder, path)
		}
		byFile[path] = append(byFile[path], is)
	}

	limited := issues[:0:0]
	for _, path := range fileOrder {
		group := byFile[path]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Severity.Rank() < group[j].Severity.Rank()
		})
		if len(group) > limit {
			group = group[:limit]
		}
		limited = append(limited, group...)
	}
	return limited
}
