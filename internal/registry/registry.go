package registry

import (
	"fmt"
	"math"
)

// Kind is the numeric type of a parameter as persisted in its store.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
)

// String makes Kind satisfy fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// StoreID identifies one of the configuration stores a parameter lives in.
type StoreID string

const (
	// StorePipeline is the pipeline's own config.yaml.
	StorePipeline StoreID = "pipeline"
	// StoreForge is the prompt-forge default_config.yaml.
	StoreForge StoreID = "forge"
	// StoreResearcher is the researcher defaults.py source file.
	StoreResearcher StoreID = "researcher"
	// StoreAgents is the multi-agent task.json.
	StoreAgents StoreID = "agents"
)

// Parameter declares a single tunable value: its identity, UI domain, and
// where it is persisted. Min, Max and Default are in the UI domain.
type Parameter struct {
	Key     string
	Kind    Kind
	Min     float64
	Max     float64
	Store   StoreID
	Path    string // dotted path in a document store, literal key token in the pattern store
	Default float64
	Scale   bool // 0-100 slider position stored as a 0.00-1.00 fraction
}

// Clamp forces a UI-domain value into the parameter's declared domain.
// Integer-kind and scaled parameters are rounded to whole slider positions.
func (p Parameter) Clamp(v float64) float64 {
	if p.Kind == KindInt || p.Scale {
		v = math.Round(v)
	}
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

// ToStored converts a UI-domain value to the value written to the store.
// Scaled parameters become a two-decimal fraction clamped to [0, 1].
func (p Parameter) ToStored(v float64) float64 {
	if !p.Scale {
		return p.Clamp(v)
	}
	f := math.Round(v) / 100.0
	f = math.Round(f*100) / 100
	if f < 0.0 {
		f = 0.0
	}
	if f > 1.0 {
		f = 1.0
	}
	return f
}

// FromStored converts a stored value back into the UI domain, clamping
// out-of-range stored values before they become observable.
func (p Parameter) FromStored(v float64) float64 {
	if p.Scale {
		return p.Clamp(math.Round(v * 100.0))
	}
	return p.Clamp(v)
}

// ParameterSet maps parameter keys to their current UI-domain values. It is
// the single source of truth passed between load and write-back.
type ParameterSet map[string]float64

// Clone returns an independent copy of the set.
func (s ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Registry holds the immutable parameter declarations, keyed uniquely and
// preserving declaration order for stable iteration.
type Registry struct {
	params []Parameter
	byKey  map[string]Parameter
}

// New builds a registry from explicit declarations. Duplicate keys are
// rejected since every parameter must be uniquely addressable.
func New(params []Parameter) (*Registry, error) {
	r := &Registry{
		params: make([]Parameter, 0, len(params)),
		byKey:  make(map[string]Parameter, len(params)),
	}
	for _, p := range params {
		if p.Key == "" {
			return nil, fmt.Errorf("parameter with empty key")
		}
		if _, exists := r.byKey[p.Key]; exists {
			return nil, fmt.Errorf("duplicate parameter key %q", p.Key)
		}
		if p.Max < p.Min {
			return nil, fmt.Errorf("parameter %q: max %v below min %v", p.Key, p.Max, p.Min)
		}
		r.params = append(r.params, p)
		r.byKey[p.Key] = p
	}
	return r, nil
}

// Default returns the registry of all pipeline parameters.
func Default() *Registry {
	r, err := New(defaultParameters())
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return r
}

// All returns the declarations in declaration order.
func (r *Registry) All() []Parameter {
	out := make([]Parameter, len(r.params))
	copy(out, r.params)
	return out
}

// Get returns the declaration for key, if declared.
func (r *Registry) Get(key string) (Parameter, bool) {
	p, ok := r.byKey[key]
	return p, ok
}

// Keys returns all parameter keys in declaration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.params))
	for i, p := range r.params {
		keys[i] = p.Key
	}
	return keys
}

// NewSet returns a ParameterSet with every parameter at its declared default.
func (r *Registry) NewSet() ParameterSet {
	set := make(ParameterSet, len(r.params))
	for _, p := range r.params {
		set[p.Key] = p.Clamp(p.Default)
	}
	return set
}

// ClampSet forces every value in the set into its parameter's domain.
// Unknown keys are dropped.
func (r *Registry) ClampSet(set ParameterSet) ParameterSet {
	out := make(ParameterSet, len(set))
	for k, v := range set {
		if p, ok := r.byKey[k]; ok {
			out[k] = p.Clamp(v)
		}
	}
	return out
}

// ApplyMasterLevel positions every parameter at min + pct*(max-min) of its own
// domain, for the master-quality control that drives all sliders at once.
// pct is clamped to [0, 1].
func (r *Registry) ApplyMasterLevel(set ParameterSet, pct float64) {
	if pct < 0.0 {
		pct = 0.0
	}
	if pct > 1.0 {
		pct = 1.0
	}
	for _, p := range r.params {
		set[p.Key] = p.Clamp(p.Min + pct*(p.Max-p.Min))
	}
}
