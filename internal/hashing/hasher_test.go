// File path: internal/hashing/hasher_test.go
package hashing

import (
	"testing"
)

func TestHashContentStable(t *testing.T) {
	content := "package main\n\nfunc main() {}\n"
	first := HashContent(content)
	second := HashContent(content)
	if first != second {
		t.Fatalf("expected stable hash, got %s and %s", first, second)
	}
	if len(first) != digestHexLen {
		t.Fatalf("expected %d hex chars, got %d", digestHexLen, len(first))
	}
}

func TestHashContentIgnoresTrailingWhitespace(t *testing.T) {
	clean := "func add(a, b int) int {\n\treturn a + b\n}\n"
	trailing := "func add(a, b int) int {   \n\treturn a + b\t\r\n}\n"
	if HashContent(clean) != HashContent(trailing) {
		t.Fatal("trailing whitespace should not change the hash")
	}
}

func TestHashContentSensitiveToIndentation(t *testing.T) {
	base := "if ok {\n\tdoWork()\n}\n"
	reindented := "if ok {\n\t\tdoWork()\n}\n"
	if HashContent(base) == HashContent(reindented) {
		t.Fatal("leading whitespace changes must change the hash")
	}
}

func TestHashContentDistinguishesContent(t *testing.T) {
	if HashContent("a := 1") == HashContent("a := 2") {
		t.Fatal("different content must hash differently")
	}
}

func TestHashRulesOrderIndependent(t *testing.T) {
	forward := HashRules([]string{"golang/error-handling", "general/todo-debt", "golang/mutex-copy"})
	shuffled := HashRules([]string{"golang/mutex-copy", "golang/error-handling", "general/todo-debt"})
	if forward != shuffled {
		t.Fatalf("rule order should not matter: %s vs %s", forward, shuffled)
	}
}

func TestHashRulesDoesNotMutateInput(t *testing.T) {
	ids := []string{"b", "a", "c"}
	HashRules(ids)
	if ids[0] != "b" || ids[1] != "a" || ids[2] != "c" {
		t.Fatalf("input slice was reordered: %v", ids)
	}
}

func TestHashRulesDistinguishesSets(t *testing.T) {
	if HashRules([]string{"a", "b"}) == HashRules([]string{"a", "c"}) {
		t.Fatal("different rule sets must hash differently")
	}
}

func TestNewCacheKey(t *testing.T) {
	key := NewCacheKey("package main\n", []string{"golang/error-handling"})
	if key.FileHash != HashContent("package main\n") {
		t.Fatal("file hash mismatch")
	}
	if key.RulesHash != HashRules([]string{"golang/error-handling"}) {
		t.Fatal("rules hash mismatch")
	}
}
