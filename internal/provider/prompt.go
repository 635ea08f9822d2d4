// File path: internal/provider/prompt.go
package provider

import (
	"fmt"
	"strings"

	"codecritic/internal/rules"
)

// BuildSystemPrompt frames the backend as a reviewer for the composed pack.
func BuildSystemPrompt(packName string) string {
	var b strings.Builder
	b.WriteString("You are a rigorous code reviewer applying the \"")
	b.WriteString(packName)
	b.WriteString("\" rule pack.\n")
	b.WriteString("Report only genuine violations of the listed rules. ")
	b.WriteString("Do not invent rules, do not report style preferences, and cite exact line numbers. ")
	b.WriteString("Respond with JSON matching the requested schema; return an empty issues array when the code is clean.")
	return b.String()
}

// BuildUserPrompt embeds the file and the applicable rules into the review
// request.
func BuildUserPrompt(path, content, language string, applicable []rules.Rule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review the following %s file against each rule below.\n\n", language)
	b.WriteString("## Rules\n")
	for _, rule := range applicable {
		fmt.Fprintf(&b, "\n### %s (%s, severity: %s)\n", rule.ID, rule.Name, rule.Severity)
		if rule.Description != "" {
			b.WriteString(strings.TrimSpace(rule.Description))
			b.WriteString("\n")
		}
		for _, check := range rule.Checklist {
			fmt.Fprintf(&b, "- %s\n", check)
		}
		if rule.Examples != nil && rule.Examples.Bad != "" {
			fmt.Fprintf(&b, "Bad example:\n```\n%s\n```\n", strings.TrimSpace(rule.Examples.Bad))
		}
	}
	fmt.Fprintf(&b, "\n## File: %s\n```\n", path)
	b.WriteString(numberLines(content))
	b.WriteString("\n```\n")
	b.WriteString("\nReport each violation with its rule_id, severity level, line range, a short title, why it matters, and concrete fixes.")
	return b.String()
}

// numberLines prefixes each line with its 1-based number so the backend can
// cite locations precisely.
func numberLines(content string) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%4d| %s", i+1, line)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
