// File path: internal/engine/engine.go

// Package engine orchestrates the analysis pipeline: rule composition, file
// discovery, cache partitioning, bounded provider fan-out, and reduction of
// the surviving findings into a score and gate decision.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"codecritic/internal/cache"
	"codecritic/internal/common"
	"codecritic/internal/provider"
	"codecritic/internal/rules"
	"codecritic/internal/scoring"
	"codecritic/internal/workspace"
)

// Hardcoded pipeline limits.
const (
	maxTokensPerCall    = 4096
	maxIssuesPerFile    = 10
	analysisTemperature = 0.1
)

// Engine wires the pipeline collaborators together. Construct once, run
// Analyze per request; the engine itself holds no per-run state.
type Engine struct {
	cfg        Config
	registry   *rules.Registry
	compositor *rules.Compositor
	scanner    *workspace.Scanner
	store      *cache.Store
	provider   provider.Provider
	scorer     *scoring.Calculator
	logger     *slog.Logger

	ownsStore bool
}

// New constructs an engine from the configuration and optional collaborator
// overrides. Store open failures (including schema faults) are fatal.
func New(ctx context.Context, cfg Config, opts ...Option) (*Engine, error) {
	cfg.applyDefaults()
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	registry := s.registry
	if registry == nil {
		registry = rules.NewRegistry()
		customPack, err := rules.NewCustomPack(cfg.RulesDir)
		if err != nil {
			return nil, fmt.Errorf("load custom rules: %w", err)
		}
		registry.Register(customPack)
	}

	store := s.store
	ownsStore := false
	if store == nil {
		opened, err := cache.Open(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("open result store: %w", err)
		}
		store = opened
		ownsStore = true
	}

	prov := s.provider
	if prov == nil {
		selected, err := provider.NewFromEnv(ctx)
		if err != nil {
			if ownsStore {
				store.Close()
			}
			return nil, fmt.Errorf("init provider: %w", err)
		}
		prov = selected
	}

	scanner := s.scanner
	if scanner == nil {
		scanner = workspace.NewScanner(".")
		scanner.ExcludeGlobs = cfg.ExcludeGlobs
		scanner.ExcludePaths = cfg.ExcludePaths
	}

	scorer := s.scorer
	if scorer == nil {
		scorer = &scoring.Calculator{
			FailLevels:     cfg.FailLevels,
			ScoreThreshold: cfg.ScoreThreshold,
		}
	}

	return &Engine{
		cfg:        cfg,
		registry:   registry,
		compositor: rules.NewCompositor(registry),
		scanner:    scanner,
		store:      store,
		provider:   prov,
		scorer:     scorer,
		logger:     common.Logger(),
		ownsStore:  ownsStore,
	}, nil
}

// Store exposes the result store for cache maintenance commands.
func (e *Engine) Store() *cache.Store {
	return e.store
}

// Provider exposes the active analysis backend.
func (e *Engine) Provider() provider.Provider {
	return e.provider
}

// Close releases resources the engine opened itself. Injected collaborators
// stay open; their owner closes them.
func (e *Engine) Close() error {
	if e == nil || !e.ownsStore {
		return nil
	}
	return e.store.Close()
}
