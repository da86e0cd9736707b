package dspline

import (
	"time"
)

//////
// Helper functions.
//////

// cloneFloats returns an independent copy of values.
func cloneFloats(values []float64) []float64 {
	c := make([]float64, len(values))
	copy(c, values)

	return c
}

// measureExecutionTime runs a benchmark function with the given parameter
// and measures its execution time in seconds.
//
// Parameters:
// - f: The benchmark function to measure
// - param: Parameter value to pass to the benchmark function
//
// Returns:
// - float64: Execution time in seconds
// - error: Error from the benchmark function if it failed, nil otherwise
//
// Important notes:
//   - Time measurement includes only the execution of f
//   - Durations are in seconds so DefaultAlpha stays on the same scale as
//     the fitted values
//   - A failing benchmark still reports its duration, but callers must not
//     feed it to the fit
//
// Thread safety:
// - This function is thread-safe if and only if f is thread-safe.
func measureExecutionTime[T Number](f BenchmarkFunc[T], param T) (float64, error) {
	start := time.Now()

	err := f(param)

	return time.Since(start).Seconds(), err
}
