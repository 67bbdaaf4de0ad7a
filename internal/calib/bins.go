package calib

import (
	"fmt"
	"sort"
)

// findBin returns the index of the bin whose lower edge is the greatest
// edge <= pt. Momentum below the first edge saturates to bin 0, momentum
// at or above the last edge saturates to the last bin; there is no
// underflow or overflow condition.
func findBin(edges []float64, pt float64) int {
	i := sort.SearchFloat64s(edges, pt)
	if i < len(edges) && edges[i] == pt {
		return i
	}
	if i == 0 {
		return 0
	}
	return i - 1
}

// checkEdges verifies a strictly increasing, non-empty edge sequence.
func checkEdges(edges []float64) error {
	if len(edges) == 0 {
		return fmt.Errorf("empty bin edges: %w", ErrConfiguration)
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return fmt.Errorf("bin edges not strictly increasing at index %d (%g after %g): %w",
				i, edges[i], edges[i-1], ErrConfiguration)
		}
	}
	return nil
}
