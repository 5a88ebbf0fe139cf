package allocator

import (
	"fmt"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

// AllocationConstraints describes what an allocation for a guest must honor
// and what it should try to honor.
type AllocationConstraints struct {
	MustHaves   []string `json:"must_haves"`
	NiceToHaves []string `json:"nice_to_haves"`
	Conflicts   []string `json:"conflicts"`
}

// GetConstraints derives a guest's constraints from their preferences.
// Fields the scorers penalize heavily when unmet are must-haves; bonus-only
// fields are nice-to-haves. Slices are never nil.
func GetConstraints(guest *store.Guest) AllocationConstraints {
	c := AllocationConstraints{
		MustHaves:   []string{},
		NiceToHaves: []string{},
		Conflicts:   []string{},
	}
	p := guest.Preferences

	if p.RequiresAccessible() {
		c.MustHaves = append(c.MustHaves, "Accessible room")
	}
	if p.Smoking != nil {
		if *p.Smoking {
			c.MustHaves = append(c.MustHaves, "Smoking room required")
		} else {
			c.MustHaves = append(c.MustHaves, "Non-smoking room required")
		}
	}

	if p.View != nil {
		c.NiceToHaves = append(c.NiceToHaves, fmt.Sprintf("%s view", *p.View))
	}
	if p.Floor != nil {
		c.NiceToHaves = append(c.NiceToHaves, fmt.Sprintf("%s floor", *p.Floor))
	}
	if p.WantsQuiet() {
		c.NiceToHaves = append(c.NiceToHaves, "Quiet location")
		c.Conflicts = append(c.Conflicts, "Avoid rooms near elevators, lobby, or low floors")
	}

	return c
}
