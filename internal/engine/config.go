// File path: internal/engine/config.go
package engine

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"codecritic/internal/issue"
	"codecritic/internal/scoring"
)

// Config controls one engine instance. Zero values fall back to defaults in
// applyDefaults; LoadConfig overlays CODECRITIC_* environment variables.
type Config struct {
	Packs            []string
	Language         string
	MaxProviderCalls int
	DisabledRules    []string
	FailLevels       []issue.Severity
	ScoreThreshold   int

	CachePath string
	RulesDir  string

	ExcludeGlobs []string
	ExcludePaths []string
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Packs:            []string{"golang", "general"},
		Language:         "Go",
		MaxProviderCalls: 20,
		FailLevels:       scoring.DefaultFailLevels,
		ScoreThreshold:   scoring.DefaultScoreThreshold,
	}
}

// LoadConfig assembles configuration from the environment on top of the
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_PACKS")); raw != "" {
		cfg.Packs = splitList(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_LANGUAGE")); raw != "" {
		cfg.Language = raw
	}
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_MAX_CALLS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse CODECRITIC_MAX_CALLS: %w", err)
		}
		cfg.MaxProviderCalls = value
	}
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_DISABLED_RULES")); raw != "" {
		cfg.DisabledRules = splitList(raw)
	}
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_SCORE_THRESHOLD")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse CODECRITIC_SCORE_THRESHOLD: %w", err)
		}
		cfg.ScoreThreshold = value
	}
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_FAIL_LEVELS")); raw != "" {
		levels := make([]issue.Severity, 0, 3)
		for _, item := range splitList(raw) {
			level, err := issue.ParseSeverity(item)
			if err != nil {
				return Config{}, fmt.Errorf("parse CODECRITIC_FAIL_LEVELS: %w", err)
			}
			levels = append(levels, level)
		}
		cfg.FailLevels = levels
	}
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_RULES_DIR")); raw != "" {
		cfg.RulesDir = raw
	}
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_EXCLUDE")); raw != "" {
		cfg.ExcludeGlobs = splitList(raw)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Packs) == 0 {
		c.Packs = []string{"golang", "general"}
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = "Go"
	}
	if c.MaxProviderCalls <= 0 {
		c.MaxProviderCalls = 20
	}
	if c.FailLevels == nil {
		c.FailLevels = scoring.DefaultFailLevels
	}
	// Zero means unset; a negative threshold is deliberate and disables
	// the score check.
	if c.ScoreThreshold == 0 {
		c.ScoreThreshold = scoring.DefaultScoreThreshold
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
