package dspline

import "math"

// SecondDifferences computes the curvature profile of a marker sequence:
// the magnitude of the discrete second difference at every interior
// position.
//
// Parameters:
// - markers: Fitted values at the sample-aligned positions
//
// Returns:
//   - []float64: len(markers)-2 values, element j belongs to position j+1.
//     Positions 0 and len(markers)-1 have no curvature and are never
//     reported. Returns nil for fewer than 3 markers.
//
// Mathematical formula:
//
//	fd[k] = |m[k-1] - 2·m[k] + m[k+1]|,  1 <= k <= len(markers)-2
func SecondDifferences(markers []float64) []float64 {
	if len(markers) < 3 {
		return nil
	}

	fd := make([]float64, len(markers)-2)
	for k := 1; k < len(markers)-1; k++ {
		fd[k-1] = math.Abs(markers[k-1] - 2*markers[k] + markers[k+1])
	}

	return fd
}
