// File path: internal/rules/registry.go
package rules

import (
	"fmt"
	"sort"
	"sync"
)

// Pack is a named, versioned collection of rules.
type Pack interface {
	Name() string
	Version() string
	Rules() []Rule
}

// Registry holds the packs available to a process. It is constructed once at
// startup and injected into the compositor; there is no package-level pack
// state.
type Registry struct {
	mu    sync.RWMutex
	packs map[string]Pack
}

// NewRegistry returns a registry preloaded with the builtin packs.
func NewRegistry() *Registry {
	reg := &Registry{packs: make(map[string]Pack)}
	reg.Register(newGolangPack())
	reg.Register(newGeneralPack())
	return reg
}

// Register adds or replaces a pack under its name.
func (r *Registry) Register(pack Pack) {
	if pack == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packs[pack.Name()] = pack
}

// Get returns the pack registered under name. An unknown name is a
// configuration error and fails the run.
func (r *Registry) Get(name string) (Pack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pack, ok := r.packs[name]
	if !ok {
		return nil, fmt.Errorf("pack not found: %s", name)
	}
	return pack, nil
}

// Names lists the registered pack names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.packs))
	for name := range r.packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// staticPack backs the builtin packs and packs loaded from rule files.
type staticPack struct {
	name    string
	version string
	rules   []Rule
}

func (p *staticPack) Name() string    { return p.name }
func (p *staticPack) Version() string { return p.version }
func (p *staticPack) Rules() []Rule   { return p.rules }
