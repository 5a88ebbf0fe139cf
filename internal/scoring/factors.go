package scoring

// FactorResult captures one factor's contribution to the total score.
type FactorResult struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Reason   string  `json:"reason,omitempty"`
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampScore bounds a desirability score to [0, 100].
func ClampScore(v float64) float64 {
	return clamp(v, 0, 100)
}
