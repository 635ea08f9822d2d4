// File path: internal/rules/rules_test.go
package rules

import (
	"os"
	"path/filepath"
	"testing"

	"codecritic/internal/issue"
)

func TestRegistryBuiltins(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"golang", "general"} {
		pack, err := registry.Get(name)
		if err != nil {
			t.Fatalf("expected builtin pack %s: %v", name, err)
		}
		if len(pack.Rules()) == 0 {
			t.Fatalf("pack %s has no rules", name)
		}
	}
}

func TestRegistryUnknownPack(t *testing.T) {
	registry := NewRegistry()
	if _, err := registry.Get("ruby"); err == nil {
		t.Fatal("expected error for unknown pack")
	}
}

func TestComposeMergesPacks(t *testing.T) {
	registry := NewRegistry()
	composed, err := NewCompositor(registry).Compose([]string{"golang", "general"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	golang, _ := registry.Get("golang")
	general, _ := registry.Get("general")
	want := len(golang.Rules()) + len(general.Rules())
	if got := len(composed.Rules()); got != want {
		t.Fatalf("expected %d composed rules, got %d", want, got)
	}
}

func TestComposeLaterPackWins(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&staticPack{name: "first", version: "1", rules: mustCompile([]Rule{
		{ID: "shared/check", Name: "original", Severity: issue.SeverityMinor},
	})})
	registry.Register(&staticPack{name: "second", version: "1", rules: mustCompile([]Rule{
		{ID: "shared/check", Name: "override", Severity: issue.SeverityBlocker},
	})})

	composed, err := NewCompositor(registry).Compose([]string{"first", "second"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	rules := composed.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 deduplicated rule, got %d", len(rules))
	}
	if rules[0].Severity != issue.SeverityBlocker {
		t.Fatalf("later pack must win, got severity %s", rules[0].Severity)
	}
}

func TestComposeUnknownPackFails(t *testing.T) {
	if _, err := NewCompositor(NewRegistry()).Compose([]string{"golang", "missing"}); err == nil {
		t.Fatal("expected error for unknown pack in composition")
	}
}

func TestAppliesToNoTriggers(t *testing.T) {
	rule := Rule{ID: "any/rule", Severity: issue.SeverityInfo}
	if err := rule.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !rule.AppliesTo("whatever.py", "print('x')") {
		t.Fatal("rule without triggers applies everywhere")
	}
}

func TestAppliesToFilePatterns(t *testing.T) {
	rule := Rule{
		ID:       "go/only",
		Severity: issue.SeverityMinor,
		Triggers: &Trigger{FilePatterns: []string{"*.go"}},
	}
	if err := rule.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !rule.AppliesTo("internal/server/handler.go", "") {
		t.Fatal("basename glob should match nested go file")
	}
	if rule.AppliesTo("README.md", "") {
		t.Fatal("glob must not match markdown")
	}
}

func TestAppliesToPathGlob(t *testing.T) {
	rule := Rule{
		ID:       "internal/only",
		Severity: issue.SeverityMinor,
		Triggers: &Trigger{FilePatterns: []string{"internal/**/*.go"}},
	}
	if err := rule.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !rule.AppliesTo("./internal/cache/store.go", "") {
		t.Fatal("path glob should match after normalization")
	}
	if rule.AppliesTo("cmd/main.go", "") {
		t.Fatal("path glob must not match outside internal")
	}
}

func TestAppliesToCodePatterns(t *testing.T) {
	rule := Rule{
		ID:       "go/mutex",
		Severity: issue.SeverityMajor,
		Triggers: &Trigger{CodePatterns: []string{`sync\.Mutex`}},
	}
	if err := rule.Compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !rule.AppliesTo("a.go", "var mu sync.Mutex") {
		t.Fatal("code pattern should match")
	}
	if rule.AppliesTo("a.go", "var mu sync.WaitGroup2") {
		t.Fatal("code pattern must not match unrelated content")
	}
}

func TestCompileRejectsBadRules(t *testing.T) {
	missing := Rule{Severity: issue.SeverityInfo}
	if err := missing.Compile(); err == nil {
		t.Fatal("expected error for missing id")
	}
	badSeverity := Rule{ID: "x", Severity: "urgent"}
	if err := badSeverity.Compile(); err == nil {
		t.Fatal("expected error for unknown severity")
	}
	badRegexp := Rule{ID: "x", Severity: issue.SeverityInfo, Triggers: &Trigger{CodePatterns: []string{"("}}}
	if err := badRegexp.Compile(); err == nil {
		t.Fatal("expected error for invalid regexp")
	}
}

func TestLoadRulesDir(t *testing.T) {
	dir := t.TempDir()
	valid := `id: custom/no-panics
name: No panics
level: major
description: Avoid panic in library code.
triggers:
  code_patterns:
    - 'panic\('
`
	if err := os.WriteFile(filepath.Join(dir, "no-panics.yaml"), []byte(valid), 0o644); err != nil {
		t.Fatalf("write rule: %v", err)
	}
	invalid := "id: broken\nlevel: not-a-level\n"
	if err := os.WriteFile(filepath.Join(dir, "broken.yml"), []byte(invalid), 0o644); err != nil {
		t.Fatalf("write rule: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("not yaml"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	rules, err := LoadRulesDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 valid rule, got %d", len(rules))
	}
	if rules[0].ID != "custom/no-panics" {
		t.Fatalf("unexpected rule: %+v", rules[0])
	}
	if !rules[0].AppliesTo("x.go", "panic(\"boom\")") {
		t.Fatal("loaded rule trigger did not compile")
	}
}

func TestLoadRulesDirMissing(t *testing.T) {
	rules, err := LoadRulesDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(rules) != 0 {
		t.Fatalf("expected no rules, got %d", len(rules))
	}
}

func TestRulesForFile(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&staticPack{name: "mixed", version: "1", rules: mustCompile([]Rule{
		{ID: "mixed/everywhere", Severity: issue.SeverityInfo},
		{ID: "mixed/go-only", Severity: issue.SeverityMinor, Triggers: &Trigger{FilePatterns: []string{"*.go"}}},
	})})
	composed, err := NewCompositor(registry).Compose([]string{"mixed"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if got := len(composed.RulesForFile("app.go", "")); got != 2 {
		t.Fatalf("expected 2 applicable rules for go file, got %d", got)
	}
	if got := len(composed.RulesForFile("app.py", "")); got != 1 {
		t.Fatalf("expected 1 applicable rule for python file, got %d", got)
	}
}
