// Package face matches face descriptors. Descriptor extraction happens on
// the client; the server only compares the resulting vectors.
package face

import (
	"fmt"
	"math"
)

// DefaultThreshold is the conventional cutoff for 128-dimension descriptors.
const DefaultThreshold = 0.6

// Distance returns the euclidean distance between two descriptors.
func Distance(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty descriptor")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("descriptor length mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Match reports whether two descriptors belong to the same face, using the
// given distance threshold.
func Match(a, b []float64, threshold float64) (bool, error) {
	d, err := Distance(a, b)
	if err != nil {
		return false, err
	}
	return d < threshold, nil
}
