// File path: internal/issue/severity.go
package issue

import (
	"fmt"
	"strings"
)

// Severity orders review findings from most to least urgent.
type Severity string

const (
	SeverityBlocker  Severity = "blocker"
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityInfo     Severity = "info"
)

// Severities lists all levels from most to least severe.
var Severities = []Severity{
	SeverityBlocker,
	SeverityCritical,
	SeverityMajor,
	SeverityMinor,
	SeverityInfo,
}

var severityRanks = map[Severity]int{
	SeverityBlocker:  0,
	SeverityCritical: 1,
	SeverityMajor:    2,
	SeverityMinor:    3,
	SeverityInfo:     4,
}

// ParseSeverity normalizes and validates a severity string.
func ParseSeverity(value string) (Severity, error) {
	level := Severity(strings.ToLower(strings.TrimSpace(value)))
	if !level.Valid() {
		return "", fmt.Errorf("unknown severity %q", value)
	}
	return level, nil
}

// Valid reports whether the severity is one of the known levels.
func (s Severity) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// Rank returns the sort position of the severity; blocker ranks first.
// Unknown severities sort after every known level.
func (s Severity) Rank() int {
	if rank, ok := severityRanks[s]; ok {
		return rank
	}
	return len(severityRanks)
}

func (s Severity) String() string {
	return string(s)
}
