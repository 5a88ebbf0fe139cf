package scoring

import "github.com/MikeSquared-Agency/Concierge/internal/store"

// FloorBandOf maps a floor number to its band: low <= 3, medium 4-8, high >= 9.
func FloorBandOf(floor int) store.FloorBand {
	switch {
	case floor <= 3:
		return store.FloorLow
	case floor <= 8:
		return store.FloorMedium
	default:
		return store.FloorHigh
	}
}

// MatchesFloorBand reports whether floor falls within band.
func MatchesFloorBand(floor int, band store.FloorBand) bool {
	return floor >= 1 && FloorBandOf(floor) == band
}
