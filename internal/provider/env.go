// File path: internal/provider/env.go
package provider

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"codecritic/internal/common"
)

const defaultMaxConcurrent = 4

// NewFromEnv selects a provider the same way the rest of the configuration
// loads: CODECRITIC_PROVIDER forces a backend, otherwise the first available
// API key wins, otherwise the offline stub is used.
func NewFromEnv(ctx context.Context) (Provider, error) {
	logger := common.Logger()
	choice := strings.ToLower(strings.TrimSpace(os.Getenv("CODECRITIC_PROVIDER")))
	switch choice {
	case "openai":
		key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		if key == "" {
			return nil, fmt.Errorf("provider openai selected but OPENAI_API_KEY not set")
		}
		return NewOpenAIProvider(key), nil
	case "gemini":
		key := geminiKey()
		if key == "" {
			return nil, fmt.Errorf("provider gemini selected but GEMINI_API_KEY not set")
		}
		return NewGeminiProvider(ctx, key)
	case "local":
		return NewLocalProvider(), nil
	case "":
	default:
		return nil, fmt.Errorf("unknown provider %q", choice)
	}

	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		return NewOpenAIProvider(key), nil
	}
	if key := geminiKey(); key != "" {
		return NewGeminiProvider(ctx, key)
	}
	logger.Warn("provider: no API key configured; falling back to local stub")
	return NewLocalProvider(), nil
}

func geminiKey() string {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
}

func concurrencyFromEnv() int {
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_MAX_CONCURRENT")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			return value
		}
	}
	return defaultMaxConcurrent
}
