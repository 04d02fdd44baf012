package sweep

import (
	"fmt"
	"strconv"
	"strings"
)

// Combination is one point of the sweep.
type Combination struct {
	Temperature float64
	TokenLimit  int
}

// Grid is the Cartesian product of temperatures and token limits.
type Grid struct {
	Temperatures []float64
	TokenLimits  []int
}

func (g Grid) Validate() error {
	if len(g.Temperatures) == 0 {
		return fmt.Errorf("at least one temperature is required")
	}
	if len(g.TokenLimits) == 0 {
		return fmt.Errorf("at least one token limit is required")
	}
	for _, limit := range g.TokenLimits {
		if limit <= 0 {
			return fmt.Errorf("invalid token limit %d: must be positive", limit)
		}
	}
	return nil
}

// Combinations lists temperatures in the outer loop and token limits in the inner loop.
func (g Grid) Combinations() []Combination {
	combos := make([]Combination, 0, len(g.Temperatures)*len(g.TokenLimits))
	for _, temp := range g.Temperatures {
		for _, limit := range g.TokenLimits {
			combos = append(combos, Combination{Temperature: temp, TokenLimit: limit})
		}
	}
	return combos
}

// FormatTemperature renders the shortest decimal that round-trips,
// keeping at least one fractional digit (0 -> "0.0").
func FormatTemperature(temp float64) string {
	s := strconv.FormatFloat(temp, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
