package constraint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

// Active is a template resolved for one tenant: enabled, with its effective
// weight and parameters.
type Active struct {
	Template Template
	Weight   int
	Params   Params
	eval     Evaluator
}

type entry struct {
	tmpl Template
	eval Evaluator
}

// Registry holds the constraint templates known to the service.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// DefaultRegistry returns a registry preloaded with the built-in library.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, b := range builtin {
		r.Register(b.tmpl, b.eval)
	}
	return r
}

// Register adds a template or replaces one with the same code.
func (r *Registry) Register(t Template, eval Evaluator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[t.Code] = entry{tmpl: t, eval: eval}
}

// Template looks up a template by code.
func (r *Registry) Template(code string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[code]
	return e.tmpl, ok
}

// Templates returns all templates, hard first, then by weight descending,
// then by code.
func (r *Registry) Templates() []Template {
	r.mu.RLock()
	out := make([]Template, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.tmpl)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return lessTemplate(out[i], out[i].DefaultWeight, out[j], out[j].DefaultWeight)
	})
	return out
}

func lessTemplate(a Template, aw int, b Template, bw int) bool {
	if a.Kind != b.Kind {
		return a.Kind == KindHard
	}
	if aw != bw {
		return aw > bw
	}
	return a.Code < b.Code
}

// Resolve merges tenant configs over the template defaults. Templates without
// a tenant config are enabled with their defaults. Unknown codes and invalid
// parameters are errors.
func (r *Registry) Resolve(configs []*store.TenantConstraintConfig) ([]Active, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	overrides := make(map[string]*store.TenantConstraintConfig, len(configs))
	for _, c := range configs {
		if _, ok := r.entries[c.TemplateCode]; !ok {
			return nil, fmt.Errorf("unknown constraint template %q", c.TemplateCode)
		}
		overrides[c.TemplateCode] = c
	}

	var active []Active
	for code, e := range r.entries {
		a := Active{Template: e.tmpl, Weight: e.tmpl.DefaultWeight, eval: e.eval}
		var raw map[string]interface{}
		if c, ok := overrides[code]; ok {
			if !c.Enabled {
				continue
			}
			if c.Weight != nil {
				if *c.Weight < 0 {
					return nil, fmt.Errorf("constraint %s: weight must be >= 0, got %d", code, *c.Weight)
				}
				a.Weight = *c.Weight
			}
			raw = c.Parameters
		}
		params, err := resolveParams(e.tmpl, raw)
		if err != nil {
			return nil, err
		}
		a.Params = params
		active = append(active, a)
	}

	sort.Slice(active, func(i, j int) bool {
		return lessTemplate(active[i].Template, active[i].Weight, active[j].Template, active[j].Weight)
	})
	return active, nil
}

// Validate checks a single tenant config against the registry.
func (r *Registry) Validate(c *store.TenantConstraintConfig) error {
	_, err := r.Resolve([]*store.TenantConstraintConfig{c})
	return err
}

func resolveParams(t Template, raw map[string]interface{}) (Params, error) {
	specs := make(map[string]ParamSpec, len(t.Params))
	out := make(Params, len(t.Params))
	for _, s := range t.Params {
		specs[s.Name] = s
		out[s.Name] = s.Default
	}
	for name, v := range raw {
		spec, ok := specs[name]
		if !ok {
			return nil, fmt.Errorf("constraint %s: unknown parameter %q", t.Code, name)
		}
		val, err := coerceParam(spec, v)
		if err != nil {
			return nil, fmt.Errorf("constraint %s: %w", t.Code, err)
		}
		out[name] = val
	}
	return out, nil
}

func coerceParam(spec ParamSpec, v interface{}) (interface{}, error) {
	switch spec.Type {
	case ParamBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("parameter %s must be a bool", spec.Name)
		}
		return b, nil
	case ParamString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("parameter %s must be a string", spec.Name)
		}
		return s, nil
	}

	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		return nil, fmt.Errorf("parameter %s must be numeric", spec.Name)
	}
	if spec.Min != nil && f < *spec.Min {
		return nil, fmt.Errorf("parameter %s=%v below minimum %v", spec.Name, f, *spec.Min)
	}
	if spec.Max != nil && f > *spec.Max {
		return nil, fmt.Errorf("parameter %s=%v above maximum %v", spec.Name, f, *spec.Max)
	}
	if spec.Type == ParamInt {
		if f != float64(int(f)) {
			return nil, fmt.Errorf("parameter %s must be an integer", spec.Name)
		}
		return int(f), nil
	}
	return f, nil
}
