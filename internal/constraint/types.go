// Package constraint implements configurable hard/soft allocation
// constraints: a template library, per-tenant overrides and a
// HardSoftScore evaluation of a full allocation.
package constraint

import (
	"fmt"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

type Kind string

const (
	KindHard Kind = "HARD"
	KindSoft Kind = "SOFT"
)

type Category string

const (
	CategoryPolicy     Category = "policy"
	CategoryPreference Category = "preference"
	CategoryPriority   Category = "priority"
	CategoryBudget     Category = "budget"
	CategoryInventory  Category = "inventory"
)

type ParamType string

const (
	ParamInt    ParamType = "int"
	ParamFloat  ParamType = "float"
	ParamBool   ParamType = "bool"
	ParamString ParamType = "string"
)

// ParamSpec describes one tunable template parameter. Min and Max apply to
// numeric types only.
type ParamSpec struct {
	Name        string      `json:"name"`
	Type        ParamType   `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
}

// Template is a named, reusable constraint definition. DefaultWeight is the
// soft score awarded (or charged) when the constraint fires; for HARD
// templates it is the soft reward for satisfying the constraint.
type Template struct {
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Kind          Kind        `json:"kind"`
	Category      Category    `json:"category"`
	DefaultWeight int         `json:"default_weight"`
	Description   string      `json:"description"`
	Params        []ParamSpec `json:"params,omitempty"`
}

// Outcome is an evaluator's verdict for one entity. Discouraged charges the
// template weight as soft cost even on a HARD template.
type Outcome int

const (
	Abstain Outcome = iota
	Satisfied
	Violated
	Discouraged
)

// Entity is one booking in a candidate solution together with its guest and
// the room it would occupy. Room may be nil for an unassigned booking.
type Entity struct {
	Booking *store.Booking
	Guest   *store.Guest
	Room    *store.Room
}

// Evaluator judges a single entity. all holds every entity of the solution,
// in processing order, and rooms the full inventory, so cross-booking
// constraints can be expressed. Evaluators must be pure.
type Evaluator func(e *Entity, all []*Entity, rooms []*store.Room, p Params) (Outcome, string)

// Params holds resolved template parameters.
type Params map[string]interface{}

// Int returns key as an int, or def when absent.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Float returns key as a float64, or def when absent.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// HardSoftScore is a two-level score: any negative Hard value makes the
// solution infeasible regardless of Soft.
type HardSoftScore struct {
	Hard int `json:"hard"`
	Soft int `json:"soft"`
}

func (s HardSoftScore) Add(o HardSoftScore) HardSoftScore {
	return HardSoftScore{Hard: s.Hard + o.Hard, Soft: s.Soft + o.Soft}
}

func (s HardSoftScore) Feasible() bool { return s.Hard >= 0 }

func (s HardSoftScore) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}

// Compare orders scores hard level first. It returns -1, 0 or 1.
func (s HardSoftScore) Compare(o HardSoftScore) int {
	switch {
	case s.Hard != o.Hard:
		if s.Hard < o.Hard {
			return -1
		}
		return 1
	case s.Soft < o.Soft:
		return -1
	case s.Soft > o.Soft:
		return 1
	}
	return 0
}

// Match records one constraint firing for one booking.
type Match struct {
	Code          string        `json:"code"`
	Kind          Kind          `json:"kind"`
	BookingID     string        `json:"booking_id,omitempty"`
	Score         HardSoftScore `json:"score"`
	Justification string        `json:"justification"`
}
