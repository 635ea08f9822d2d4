// File path: internal/rules/builtin.go
package rules

import (
	"codecritic/internal/issue"
)

// Builtin packs ship with the binary. Pack construction panics on an invalid
// builtin rule since that is a programming error, not user input.

func mustCompile(rules []Rule) []Rule {
	for i := range rules {
		if err := rules[i].Compile(); err != nil {
			panic(err)
		}
	}
	return rules
}

func newGolangPack() Pack {
	return &staticPack{
		name:    "golang",
		version: "1.0",
		rules: mustCompile([]Rule{
			{
				ID:          "golang/error-handling",
				Name:        "Errors must be handled or propagated",
				Severity:    issue.SeverityMajor,
				Category:    "correctness",
				Description: "Errors returned by calls must be checked, wrapped with context, or explicitly discarded.",
				Checklist: []string{
					"No error return is assigned to _ without justification",
					"Errors passed upward are wrapped with fmt.Errorf and %w",
					"Errors are not both logged and returned",
				},
				Fix: "Check the error, wrap it with context, and return it to the caller.",
				Triggers: &Trigger{
					FilePatterns: []string{"**/*.go"},
				},
			},
			{
				ID:          "golang/goroutine-leak",
				Name:        "Goroutines must have a termination path",
				Severity:    issue.SeverityCritical,
				Category:    "concurrency",
				Description: "Every spawned goroutine needs a way to stop: context cancellation, channel close, or bounded work.",
				Checklist: []string{
					"Goroutines select on ctx.Done() or read from a closable channel",
					"WaitGroups are waited on before the owner returns",
					"Unbounded goroutine-per-request patterns are flagged",
				},
				Fix: "Thread a context through the goroutine and select on its Done channel.",
				Triggers: &Trigger{
					FilePatterns: []string{"**/*.go"},
					CodePatterns: []string{`go\s+func`, `go\s+\w+(\.\w+)*\(`},
				},
			},
			{
				ID:          "golang/mutex-copy",
				Name:        "Types containing sync primitives must not be copied",
				Severity:    issue.SeverityCritical,
				Category:    "concurrency",
				Description: "Copying a struct that embeds a sync.Mutex or sync.WaitGroup silently forks the lock state.",
				Checklist: []string{
					"Methods on mutex-holding types use pointer receivers",
					"Mutex-holding structs are not passed by value",
				},
				Fix: "Use pointer receivers and pass the struct by pointer.",
				Triggers: &Trigger{
					FilePatterns: []string{"**/*.go"},
					CodePatterns: []string{`sync\.(Mutex|RWMutex|WaitGroup)`},
				},
			},
			{
				ID:          "golang/context-misuse",
				Name:        "Contexts are passed, not stored",
				Severity:    issue.SeverityMajor,
				Category:    "api-design",
				Description: "context.Context is the first parameter of blocking operations and is never stored in a struct field.",
				Checklist: []string{
					"Blocking and I/O functions accept ctx as the first parameter",
					"context.Background() is not used deep inside call chains",
				},
				Fix: "Accept a context parameter and propagate the caller's context.",
				Triggers: &Trigger{
					FilePatterns: []string{"**/*.go"},
					CodePatterns: []string{`context\.`},
				},
			},
			{
				ID:          "golang/defer-in-loop",
				Name:        "Defers inside loops delay resource release",
				Severity:    issue.SeverityMinor,
				Category:    "resources",
				Description: "A defer inside a loop body only runs when the function returns, holding files and locks for the whole loop.",
				Checklist: []string{
					"Loop bodies that open resources release them in the iteration",
				},
				Fix: "Extract the loop body into a function or close the resource explicitly.",
				Triggers: &Trigger{
					FilePatterns: []string{"**/*.go"},
					CodePatterns: []string{`for\s`},
				},
			},
		}),
	}
}

func newGeneralPack() Pack {
	return &staticPack{
		name:    "general",
		version: "1.0",
		rules: mustCompile([]Rule{
			{
				ID:          "general/hardcoded-secret",
				Name:        "No credentials in source",
				Severity:    issue.SeverityBlocker,
				Category:    "security",
				Description: "API keys, passwords, and tokens must come from the environment or a secret store, never from literals.",
				Checklist: []string{
					"No string literals that look like keys, tokens, or passwords",
					"Connection strings do not embed credentials",
				},
				Fix: "Move the secret to an environment variable and read it at startup.",
				Triggers: &Trigger{
					CodePatterns: []string{`(?i)(api[_-]?key|secret|passwd|password|token)\s*[:=]\s*["'][^"']{8,}`},
				},
			},
			{
				ID:          "general/sql-injection",
				Name:        "Queries must be parameterized",
				Severity:    issue.SeverityBlocker,
				Category:    "security",
				Description: "SQL built by string concatenation with external input is injectable.",
				Checklist: []string{
					"Queries use placeholders, never concatenated input",
					"Identifiers interpolated into SQL come from an allow-list",
				},
				Fix: "Use placeholder parameters for every value from outside the process.",
				Triggers: &Trigger{
					CodePatterns: []string{`(?i)(select|insert|update|delete)\s`},
				},
			},
			{
				ID:          "general/todo-debt",
				Name:        "Stale TODO markers",
				Severity:    issue.SeverityInfo,
				Category:    "maintainability",
				Description: "TODO/FIXME markers without an owner or ticket accumulate as unowned debt.",
				Checklist: []string{
					"TODO and FIXME comments name a concrete follow-up",
				},
				Fix: "Link the marker to a tracked item or resolve it.",
				Triggers: &Trigger{
					CodePatterns: []string{`(?i)(TODO|FIXME|XXX)`},
				},
			},
			{
				ID:          "general/large-function",
				Name:        "Oversized functions",
				Severity:    issue.SeverityMinor,
				Category:    "maintainability",
				Description: "Functions spanning hundreds of lines hide multiple responsibilities and resist testing.",
				Checklist: []string{
					"Single functions do not mix orchestration and detail work",
					"Deep nesting is factored into named helpers",
				},
				Fix: "Split the function along its natural phase boundaries.",
			},
		}),
	}
}
