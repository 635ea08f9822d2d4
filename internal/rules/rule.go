// File path: internal/rules/rule.go

// Package rules defines review rules, rule packs, and the composition logic
// that turns a list of pack names into one deduplicated rule set per run.
package rules

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"codecritic/internal/issue"
)

// Trigger restricts a rule to files whose path matches one of the glob
// patterns or whose content matches one of the regular expressions. A rule
// without triggers applies to every file.
type Trigger struct {
	FilePatterns []string `yaml:"file_patterns" json:"file_patterns,omitempty"`
	CodePatterns []string `yaml:"code_patterns" json:"code_patterns,omitempty"`

	codeRegexps []*regexp.Regexp
}

// Examples holds illustrative bad/good code for prompt construction.
type Examples struct {
	Bad  string `yaml:"bad" json:"bad,omitempty"`
	Good string `yaml:"good" json:"good,omitempty"`
}

// Rule is a single semantic review check. Rules are immutable once loaded
// and compiled.
type Rule struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Severity    issue.Severity `yaml:"level" json:"level"`
	Category    string         `yaml:"category" json:"category,omitempty"`
	Description string         `yaml:"description" json:"description,omitempty"`
	Checklist   []string       `yaml:"checklist" json:"checklist,omitempty"`
	Fix         string         `yaml:"fix" json:"fix,omitempty"`
	Tags        []string       `yaml:"tags" json:"tags,omitempty"`
	Triggers    *Trigger       `yaml:"triggers" json:"triggers,omitempty"`
	Examples    *Examples      `yaml:"examples" json:"examples,omitempty"`
}

// Compile validates the rule and precompiles its trigger patterns. Rules must
// be compiled before AppliesTo is called.
func (r *Rule) Compile() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("rule id required")
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("rule %s: unknown severity %q", r.ID, r.Severity)
	}
	if r.Triggers == nil {
		return nil
	}
	for _, pattern := range r.Triggers.FilePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("rule %s: invalid file pattern %q", r.ID, pattern)
		}
	}
	r.Triggers.codeRegexps = r.Triggers.codeRegexps[:0]
	for _, pattern := range r.Triggers.CodePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("rule %s: invalid code pattern %q: %w", r.ID, pattern, err)
		}
		r.Triggers.codeRegexps = append(r.Triggers.codeRegexps, re)
	}
	return nil
}

// AppliesTo reports whether the rule should be evaluated against the file.
// File patterns match the slash-normalized path; patterns without a
// separator match the base name. Any matching file pattern or code pattern
// is sufficient.
func (r *Rule) AppliesTo(filePath, content string) bool {
	if r.Triggers == nil {
		return true
	}
	if len(r.Triggers.FilePatterns) == 0 && len(r.Triggers.CodePatterns) == 0 {
		return true
	}
	normalized := strings.TrimPrefix(strings.ReplaceAll(filePath, "\\", "/"), "./")
	for _, pattern := range r.Triggers.FilePatterns {
		target := normalized
		if !strings.Contains(pattern, "/") {
			target = path.Base(normalized)
		}
		if ok, err := doublestar.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	for _, re := range r.Triggers.codeRegexps {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}
