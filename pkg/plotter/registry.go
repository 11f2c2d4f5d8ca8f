package plotter

import (
	"fmt"

	"github.com/philipparndt/geodraw/pkg/feature"
	"github.com/philipparndt/geodraw/pkg/style"
)

// KindConfig is what the plotter knows about one kind
type KindConfig struct {
	Rules feature.Rules
	// Style is merged under every style the kind is drawn with
	Style style.Config
}

// Registry lists the drawable kinds. It is built once and never changes.
type Registry struct {
	kinds map[style.Kind]KindConfig
	order []style.Kind
}

// NewRegistry registers every built-in kind with its default rules,
// overlaid with overrides. Override rules replace the defaults when they
// set MaxPoints; override styles are merged over nothing, the translator
// still applies the kind defaults below them.
func NewRegistry(overrides map[style.Kind]KindConfig) (*Registry, error) {
	r := &Registry{kinds: make(map[style.Kind]KindConfig)}
	for _, kind := range style.AllKinds() {
		r.kinds[kind] = KindConfig{Rules: feature.DefaultRules(kind), Style: style.Config{}}
		r.order = append(r.order, kind)
	}

	for kind, o := range overrides {
		current, ok := r.kinds[kind]
		if !ok {
			return nil, fmt.Errorf("%w: %q", style.ErrUnsupportedKind, kind)
		}
		if o.Rules.MaxPoints > 0 {
			if o.Rules.MinPoints < 1 || o.Rules.MinPoints > o.Rules.MaxPoints {
				return nil, fmt.Errorf("invalid point rules for %s: min %d, max %d", kind, o.Rules.MinPoints, o.Rules.MaxPoints)
			}
			current.Rules = o.Rules
		}
		if len(o.Style) > 0 {
			cfg, err := style.Parse(kind, o.Style)
			if err != nil {
				return nil, fmt.Errorf("default style: %w", err)
			}
			current.Style = cfg
		}
		r.kinds[kind] = current
	}
	return r, nil
}

// DefaultRegistry returns the registry of built-in kinds
func DefaultRegistry() *Registry {
	r, err := NewRegistry(nil)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the configuration of kind
func (r *Registry) Lookup(kind style.Kind) (KindConfig, bool) {
	c, ok := r.kinds[kind]
	if !ok {
		return KindConfig{}, false
	}
	return KindConfig{Rules: c.Rules, Style: c.Style.Clone()}, true
}

// Kinds returns the registered kinds in registration order
func (r *Registry) Kinds() []style.Kind {
	out := make([]style.Kind, len(r.order))
	copy(out, r.order)
	return out
}
