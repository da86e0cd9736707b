package dspline

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/constraints"
)

// Number is the set of parameter types a LinearSpace can span.
type Number interface {
	constraints.Integer | constraints.Float
}

// ObjectiveFunc evaluates the performance function at a sample index. Lower
// values are better.
//
// Parameters:
// - index: Sample index in [0, N)
//
// Returns:
// - float64: Observed value at index
// - error: Evaluation failure; it aborts the search
//
// Usage example:
//
//	measured := []float64{5, 3, 1, 2, 4, 6}
//	objective := ObjectiveFunc(func(index int) (float64, error) {
//	    return measured[index], nil
//	})
type ObjectiveFunc func(index int) (float64, error)

// BenchmarkFunc defines the signature for functions whose single parameter
// is tuned by TuneParameter. Its wall-clock execution time is the value being
// minimized.
//
// Type Parameter:
//   - T: The numeric type of the parameter
//
// Returns:
// - error: Return nil if the benchmark succeeded, or an error if it failed
//
// Usage example:
//
//	bench := BenchmarkFunc[int](func(bufferSize int) error {
//	    return runWorkload(bufferSize)
//	})
type BenchmarkFunc[T Number] func(param T) error

// StopReason tells why a search ended.
type StopReason string

const (
	// StopConverged means the fitted minimum was stable for MaxRepeats
	// consecutive updates, or the suggestion was an already measured index.
	StopConverged StopReason = "converged"

	// StopExhausted means no unsampled interior index was left to explore.
	StopExhausted StopReason = "exhausted"

	// StopBudget means MaxEvaluations was reached.
	StopBudget StopReason = "budget"
)

// ProgressUpdate represents the state of a search after one evaluation.
type ProgressUpdate struct {
	// RunID identifies the search run.
	RunID string

	// Phase is "InitialSampling" or "Search".
	Phase string

	// Evaluations is the number of objective evaluations so far.
	Evaluations int

	// Index is the sample index just evaluated.
	Index int

	// Value is the observed value at Index.
	Value float64

	// MinIndex is the fitted minimum after the last Update, -1 before a fit.
	MinIndex int

	// MinRepeatCount is the repeat counter after the last Update.
	MinRepeatCount int

	// BestIndex and BestValue hold the best measured sample so far.
	BestIndex int
	BestValue float64
}

// SearchConfig holds all configuration parameters of a 1-D d-spline search.
//
// Fields explanation:
// - Alpha: Smoothness weight of the d-spline
// - InitialIndexes: Indices evaluated before the first fit
// - MaxRepeats: Stop once the fitted minimum repeats this many times
// - MaxEvaluations: Hard evaluation budget, 0 for unlimited
//
// Usage example:
//
//	config := DefaultSearchConfig()
//	config.MaxRepeats = 5
//	config.Logger = slog.Default()
//
// Note:
// - Create separate configs for parallel searches.
type SearchConfig struct {
	// Alpha is the regularization weight passed to New.
	// Recommended range: 0.01-1 for normalized objectives
	Alpha float64

	// InitialIndexes are evaluated, in order, before the first fit. They
	// should contain at least MinSamples distinct indices. Empty means
	// DefaultInitialIndexes.
	InitialIndexes []int

	// MaxRepeats is the number of consecutive updates with the same fitted
	// minimum after which the search is considered converged.
	MaxRepeats int

	// MaxEvaluations caps the total number of objective evaluations,
	// including the initial ones. 0 means no cap.
	MaxEvaluations int

	// ProgressChan receives an update after every evaluation. Sends never
	// block; updates are dropped when the channel is full. If nil, no
	// updates are sent.
	ProgressChan chan<- ProgressUpdate

	// Logger receives debug-level traces of every step. If nil, nothing is
	// logged.
	Logger *slog.Logger

	// Registerer, if set, receives the search metrics.
	Registerer prometheus.Registerer
}

// Result summarizes a finished search.
type Result struct {
	// RunID identifies the search run.
	RunID string

	// BestIndex and BestValue hold the best measured sample.
	BestIndex int
	BestValue float64

	// MinIndex is the fitted minimum of the final Update, -1 if no fit
	// happened.
	MinIndex int

	// Evaluations is the number of objective evaluations performed.
	Evaluations int

	// Reason tells why the search stopped.
	Reason StopReason

	// Indices and Values list the evaluations in order.
	Indices []int
	Values  []float64
}
