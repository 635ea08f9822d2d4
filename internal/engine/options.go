// File path: internal/engine/options.go
package engine

import (
	"codecritic/internal/cache"
	"codecritic/internal/provider"
	"codecritic/internal/rules"
	"codecritic/internal/scoring"
	"codecritic/internal/workspace"
)

type settings struct {
	provider provider.Provider
	store    *cache.Store
	scanner  *workspace.Scanner
	registry *rules.Registry
	scorer   *scoring.Calculator
}

// Option overrides one engine collaborator, primarily for tests.
type Option func(*settings)

// WithProvider injects the analysis backend.
func WithProvider(p provider.Provider) Option {
	return func(s *settings) { s.provider = p }
}

// WithStore injects the result store.
func WithStore(store *cache.Store) Option {
	return func(s *settings) { s.store = store }
}

// WithScanner injects the file discovery collaborator.
func WithScanner(scanner *workspace.Scanner) Option {
	return func(s *settings) { s.scanner = scanner }
}

// WithRegistry injects the rule pack registry.
func WithRegistry(registry *rules.Registry) Option {
	return func(s *settings) { s.registry = registry }
}

// WithCalculator injects the score calculator.
func WithCalculator(calc *scoring.Calculator) Option {
	return func(s *settings) { s.scorer = calc }
}
