package dspline

import (
	"fmt"
	"math"
)

// LinearSpace maps the N equally spaced sample indices of an Engine onto a
// numeric parameter range.
//
// Type Parameter:
//   - T: The numeric type of the parameter (any integer or float type)
//
// Fields:
// - Min: Parameter value at index 0 (inclusive)
// - Max: Parameter value at index Steps-1 (inclusive)
// - Steps: Number of sample positions
//
// Usage:
//
//	// Worker counts 1, 2, ..., 32
//	workers := LinearSpace[int]{Min: 1, Max: 32, Steps: 32}
//
//	// Learning rates 0.001 to 0.1 in 25 steps
//	rates := LinearSpace[float64]{Min: 0.001, Max: 0.1, Steps: 25}
//
// Warning:
//   - For integer types, values are rounded to the nearest integer, so a
//     range narrower than Steps yields repeated values
type LinearSpace[T Number] struct {
	Min   T
	Max   T
	Steps int
}

// Validate checks that the space can back an Engine.
func (s LinearSpace[T]) Validate() error {
	if s.Steps < MinSamples {
		return fmt.Errorf("%w: %d steps", ErrInvalidSize, s.Steps)
	}

	if s.Min > s.Max {
		return fmt.Errorf("dspline: invalid linear space, min %v > max %v", s.Min, s.Max)
	}

	return nil
}

// Value returns the parameter value at sample index i.
func (s LinearSpace[T]) Value(i int) T {
	if s.Steps <= 1 {
		return s.Min
	}

	lo, hi := float64(s.Min), float64(s.Max)
	v := lo + float64(i)*(hi-lo)/float64(s.Steps-1)

	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return T(v)
	default:
		return T(math.Round(v))
	}
}

// Values lists the parameter value of every sample index.
func (s LinearSpace[T]) Values() []T {
	values := make([]T, s.Steps)
	for i := range values {
		values[i] = s.Value(i)
	}

	return values
}
