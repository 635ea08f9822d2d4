// File path: internal/rules/compositor.go
package rules

import (
	"strings"
)

// ComposedPack is an immutable, deduplicated rule set snapshot for one
// analysis run. Later packs win on rule id collision; first-registration
// order is preserved otherwise.
type ComposedPack struct {
	name    string
	version string
	rules   map[string]Rule
	order   []string
}

// Compositor overlays packs into a ComposedPack.
type Compositor struct {
	registry *Registry
}

// NewCompositor returns a compositor resolving pack names via the registry.
func NewCompositor(registry *Registry) *Compositor {
	return &Compositor{registry: registry}
}

// Compose resolves the named packs and overlays their rules in order,
// followed by any extra overlay packs. A rule id defined by a later source
// replaces the earlier definition.
func (c *Compositor) Compose(packNames []string, overlays ...Pack) (*ComposedPack, error) {
	packs := make([]Pack, 0, len(packNames)+len(overlays))
	for _, name := range packNames {
		pack, err := c.registry.Get(name)
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	packs = append(packs, overlays...)

	versions := make([]string, 0, len(packs))
	for _, pack := range packs {
		versions = append(versions, pack.Name()+"@"+pack.Version())
	}
	composed := &ComposedPack{
		name:    strings.Join(packNames, "+"),
		version: strings.Join(versions, ","),
		rules:   make(map[string]Rule),
	}
	for _, pack := range packs {
		for _, rule := range pack.Rules() {
			if _, exists := composed.rules[rule.ID]; !exists {
				composed.order = append(composed.order, rule.ID)
			}
			composed.rules[rule.ID] = rule
		}
	}
	return composed, nil
}

// Name returns the "+"-joined pack names.
func (p *ComposedPack) Name() string { return p.name }

// Version identifies the rule-set snapshot for cache keying: the joined
// name@version of every source pack, so bumping any pack version invalidates
// cached results composed from it.
func (p *ComposedPack) Version() string { return p.version }

// Rules returns the composed rules in stable first-seen order.
func (p *ComposedPack) Rules() []Rule {
	out := make([]Rule, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.rules[id])
	}
	return out
}

// RuleIDs returns the composed rule ids in stable first-seen order.
func (p *ComposedPack) RuleIDs() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// RulesForFile filters the composed set down to rules whose triggers match
// the file.
func (p *ComposedPack) RulesForFile(path, content string) []Rule {
	matched := make([]Rule, 0, len(p.order))
	for _, id := range p.order {
		rule := p.rules[id]
		if rule.AppliesTo(path, content) {
			matched = append(matched, rule)
		}
	}
	return matched
}
