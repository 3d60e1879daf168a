package registry

import (
	"fmt"

	"github.com/agusespa/testscope/internal/types"
)

// Registry is the ordered, read-only feature catalogue for one run. Order is
// the declaration order from configuration; metadata merge precedence during
// aggregation depends on it.
type Registry struct {
	order    []string
	features map[string]types.FeatureDefinition
}

// New validates the definitions and builds the registry. Names must be
// unique and static confidences must lie in [0,1].
func New(defs []types.FeatureDefinition) (*Registry, error) {
	r := &Registry{
		features: make(map[string]types.FeatureDefinition, len(defs)),
	}
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("feature definition with empty name")
		}
		if _, exists := r.features[def.Name]; exists {
			return nil, fmt.Errorf("duplicate feature definition: %s", def.Name)
		}
		if def.StaticConfidence < 0 || def.StaticConfidence > 1 {
			return nil, fmt.Errorf("feature %s: confidence %v outside [0,1]", def.Name, def.StaticConfidence)
		}
		r.order = append(r.order, def.Name)
		r.features[def.Name] = def
	}
	return r, nil
}

// Get returns the definition for a feature name.
func (r *Registry) Get(name string) (types.FeatureDefinition, bool) {
	def, ok := r.features[name]
	return def, ok
}

// Names returns feature names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the definitions in declaration order.
func (r *Registry) All() []types.FeatureDefinition {
	out := make([]types.FeatureDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.features[name])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}
