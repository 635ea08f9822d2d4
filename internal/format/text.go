// File path: internal/format/text.go
package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"codecritic/internal/issue"
	"codecritic/internal/scoring"
)

var severityMarks = map[issue.Severity]string{
	issue.SeverityBlocker:  "[X]",
	issue.SeverityCritical: "[!]",
	issue.SeverityMajor:    "[*]",
	issue.SeverityMinor:    "[-]",
	issue.SeverityInfo:     "[i]",
}

// TextFormatter renders a human-readable report: a summary header, findings
// grouped by file, and the gate verdict.
type TextFormatter struct {
	calc *scoring.Calculator
}

func (f *TextFormatter) Write(w io.Writer, result *issue.AnalysisResult) error {
	summary := f.calc.Summarize(result.Issues)

	fmt.Fprintf(w, "Score: %d/%d\n", summary.Score, summary.MaxScore)
	if summary.TotalIssues == 0 {
		fmt.Fprintln(w, "No issues found.")
	} else {
		fmt.Fprintf(w, "Issues: %d (%s)\n", summary.TotalIssues, countLine(summary.Counts))
	}
	writeMeta(w, result.Meta)
	fmt.Fprintln(w)

	for _, path := range fileOrder(result.Issues) {
		fmt.Fprintf(w, "%s\n", path)
		for _, is := range result.Issues {
			if is.Location.Path != path {
				continue
			}
			mark := severityMarks[is.Severity]
			if mark == "" {
				mark = "[?]"
			}
			fmt.Fprintf(w, "  %s %s %s (%s)\n", mark, lineRef(is.Location), is.Title, is.RuleID)
			if is.Why != "" {
				fmt.Fprintf(w, "      why: %s\n", is.Why)
			}
			for _, step := range is.Do {
				fmt.Fprintf(w, "      fix: %s\n", step)
			}
		}
		fmt.Fprintln(w)
	}

	if result.GatePassed {
		fmt.Fprintln(w, "Gate: PASS")
	} else {
		fmt.Fprintln(w, "Gate: FAIL")
		for _, reason := range result.FailReasons {
			fmt.Fprintf(w, "  - %s\n", reason)
		}
	}
	return nil
}

func countLine(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, sev := range issue.Severities {
		if n := counts[string(sev)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	return strings.Join(parts, ", ")
}

func writeMeta(w io.Writer, meta map[string]any) {
	if meta == nil {
		return
	}
	fmt.Fprintf(w, "Files: %v  Cache hits: %v  LLM calls: %v  Duration: %vms\n",
		meta["files_analyzed"], meta["cache_hits"], meta["llm_calls"], meta["duration_ms"])
}

func lineRef(loc issue.Location) string {
	if loc.EndLine > loc.StartLine {
		return fmt.Sprintf("L%d-%d", loc.StartLine, loc.EndLine)
	}
	return fmt.Sprintf("L%d", loc.StartLine)
}

func fileOrder(issues []issue.Issue) []string {
	seen := make(map[string]bool)
	var order []string
	for _, is := range issues {
		if !seen[is.Location.Path] {
			seen[is.Location.Path] = true
			order = append(order, is.Location.Path)
		}
	}
	sort.Strings(order)
	return order
}
