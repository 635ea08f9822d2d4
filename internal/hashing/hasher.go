// File path: internal/hashing/hasher.go

// Package hashing derives the stable identity keys used by the result cache.
// Content digests normalize trailing whitespace per line so EOL-only edits do
// not invalidate cached results; rule-set digests are order independent so
// composing the same packs in a different order never causes a spurious miss.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// digestHexLen is the key width stored in the cache tables.
const digestHexLen = 32

// CacheKey pairs the two digests that, together with the pack version,
// uniquely identify one cached analysis.
type CacheKey struct {
	FileHash  string
	RulesHash string
}

// HashContent returns a stable digest of file content. Trailing whitespace on
// each line is stripped before hashing; leading indentation is preserved
// because it changes meaning.
func HashContent(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return digest(strings.Join(lines, "\n"))
}

// HashRules returns an order-independent digest of the active rule ids.
func HashRules(ruleIDs []string) string {
	sorted := make([]string, len(ruleIDs))
	copy(sorted, ruleIDs)
	sort.Strings(sorted)
	return digest(strings.Join(sorted, "\x00"))
}

// NewCacheKey computes both digests for a file and its applicable rule set.
func NewCacheKey(content string, ruleIDs []string) CacheKey {
	return CacheKey{
		FileHash:  HashContent(content),
		RulesHash: HashRules(ruleIDs),
	}
}

func digest(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:digestHexLen]
}
