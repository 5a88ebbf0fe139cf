package scoring

import (
	"fmt"
	"sort"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

const (
	MethodRuleBased       = "rule-based"
	MethodFeatureWeighted = "ml-based"
)

// RoomScore captures the scoring output for a single room–guest pair.
// Score is always within [0, 100]. A strategy marks a room infeasible when it
// must never be assigned; the rule-based and feature-weighted strategies
// never do.
type RoomScore struct {
	Score    float64        `json:"score"`
	Reasons  []string       `json:"reasons"`
	Factors  []FactorResult `json:"factors,omitempty"`
	Feasible bool           `json:"feasible"`
}

// Strategy scores one candidate room for one booking. Implementations must be
// pure: identical inputs yield identical output and no state carries over
// between calls.
type Strategy interface {
	Method() string
	Score(room *store.Room, guest *store.Guest, booking *store.Booking) RoomScore
}

// Set is a lookup of strategies keyed by method name.
type Set map[string]Strategy

// DefaultSet returns the built-in strategies with their default weights.
func DefaultSet() Set {
	return NewSet(NewRuleScorer(DefaultRuleWeights()), NewFeatureScorer(DefaultFeatureWeights(), DefaultFeatureScale()))
}

func NewSet(strategies ...Strategy) Set {
	s := make(Set, len(strategies))
	for _, st := range strategies {
		s[st.Method()] = st
	}
	return s
}

// ByMethod resolves a strategy by its method name.
func (s Set) ByMethod(method string) (Strategy, error) {
	st, ok := s[method]
	if !ok {
		return nil, fmt.Errorf("unknown scoring method %q", method)
	}
	return st, nil
}

// Methods returns the registered method names in sorted order.
func (s Set) Methods() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// With returns a copy of the set that also contains st.
func (s Set) With(st Strategy) Set {
	out := make(Set, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[st.Method()] = st
	return out
}
