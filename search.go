package dspline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
)

//////
// Const, vars, types.
//////

const (
	// DefaultAlpha is the smoothness weight used by DefaultSearchConfig.
	DefaultAlpha = 0.1

	// DefaultMaxRepeats is the number of consecutive updates with the same
	// fitted minimum after which a search is considered converged.
	DefaultMaxRepeats = 3

	phaseInitial = "InitialSampling"
	phaseSearch  = "Search"
)

//////
// Exported functionalities.
//////

// DefaultSearchConfig returns a default configuration.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Alpha:          DefaultAlpha,
		InitialIndexes: nil, // DefaultInitialIndexes of the domain.
		MaxRepeats:     DefaultMaxRepeats,
		MaxEvaluations: 0,   // Unlimited, the domain size bounds the search.
		ProgressChan:   nil, // Default to no progress updates.
	}
}

// DefaultInitialIndexes returns MinSamples indices spread evenly over
// [0, n), both ends included. It returns nil when n < MinSamples.
func DefaultInitialIndexes(n int) []int {
	if n < MinSamples {
		return nil
	}

	indices := make([]int, MinSamples)
	for i := range indices {
		// Rounded i*(n-1)/(MinSamples-1).
		indices[i] = (2*i*(n-1) + MinSamples - 1) / (2 * (MinSamples - 1))
	}

	return indices
}

// Search minimizes an expensive objective over n equally spaced indices with
// as few evaluations as possible, driving an Engine step by step.
//
// Parameters:
// - ctx: Cancels the search between evaluations
// - config: SearchConfig controlling the search
// - n: Number of sample indices, at least MinSamples
// - objective: The function to minimize
//
// Returns:
// - Result: Best measured sample, fitted minimum and the evaluation log
// - error: Configuration errors, objective errors (wrapped) or ctx.Err()
//
// Usage example:
//
//	measured := []float64{9, 7, 4, 2, 1, 3, 6, 8}
//
//	result, err := Search(ctx, DefaultSearchConfig(), len(measured),
//	    func(index int) (float64, error) {
//	        return measured[index], nil
//	    },
//	)
//
// How it works:
// 1. Evaluates the initial indexes to build the first fit
// 2. For each step:
//   - Updates the d-spline fit
//   - Stops if the fitted minimum repeated MaxRepeats times
//   - Evaluates the suggested index: the fitted minimum when unsampled,
//     otherwise the unsampled interior index with the largest curvature
//
// 3. Returns the best measured sample
//
// Important notes:
//   - Bounded: every step samples a new index, so at most n evaluations
//   - A failing objective aborts the search with the partial Result
//   - Synchronous: the objective is called from the calling goroutine
func Search(
	ctx context.Context,
	config SearchConfig,
	n int,
	objective ObjectiveFunc,
) (Result, error) {
	engine, err := New(n, config.Alpha)
	if err != nil {
		return Result{MinIndex: -1, BestIndex: -1}, err
	}

	logger := config.Logger
	if logger == nil {
		// Go 1.21 equivalent of slog.DiscardHandler (added in Go 1.24).
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	maxRepeats := config.MaxRepeats
	if maxRepeats <= 0 {
		maxRepeats = DefaultMaxRepeats
	}

	initial := config.InitialIndexes
	if len(initial) == 0 {
		initial = DefaultInitialIndexes(n)
	}

	for _, index := range initial {
		if index < 0 || index >= n {
			return Result{MinIndex: -1, BestIndex: -1}, fmt.Errorf("%w: initial index %d not in [0, %d)", ErrIndexOutOfRange, index, n)
		}
	}

	metrics := newSearchMetrics(config.Registerer)

	result := Result{
		RunID:     uuid.NewString(),
		BestIndex: -1,
		BestValue: math.Inf(1),
		MinIndex:  -1,
	}

	logger = logger.With("run_id", result.RunID)

	// Helper function to send progress updates.
	sendProgress := func(phase string, index int, value float64) {
		if config.ProgressChan == nil {
			return
		}

		update := ProgressUpdate{
			RunID:          result.RunID,
			Phase:          phase,
			Evaluations:    result.Evaluations,
			Index:          index,
			Value:          value,
			MinIndex:       -1,
			BestIndex:      result.BestIndex,
			BestValue:      result.BestValue,
			MinRepeatCount: 0,
		}

		if engine.Mode() != ModeNone {
			update.MinIndex = engine.sel.minIndex
			update.MinRepeatCount = engine.sel.repeats
		}

		select {
		case config.ProgressChan <- update:
		default:
			// Skip update if channel is full.
		}
	}

	budgetLeft := func() bool {
		return config.MaxEvaluations <= 0 || result.Evaluations < config.MaxEvaluations
	}

	// evaluate measures index and folds it into the engine.
	evaluate := func(phase string, index int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		value, err := objective(index)
		metrics.objectiveSeconds.Observe(time.Since(start).Seconds())

		if err != nil {
			return fmt.Errorf("evaluate index %d: %w", index, err)
		}

		if _, err := engine.Add(index, value); err != nil {
			return err
		}

		metrics.evaluations.WithLabelValues(phase).Inc()

		result.Evaluations++
		result.Indices = append(result.Indices, index)
		result.Values = append(result.Values, value)

		if value < result.BestValue {
			result.BestIndex = index
			result.BestValue = value
		}

		logger.Debug("evaluated",
			"phase", phase,
			"index", index,
			"value", value,
			"evaluations", result.Evaluations,
		)

		sendProgress(phase, index, value)

		return nil
	}

	// Phase 1: Initial sampling.
	for _, index := range initial {
		if engine.IsSampled(index) {
			continue
		}

		if !budgetLeft() {
			result.Reason = StopBudget

			return result, nil
		}

		if err := evaluate(phaseInitial, index); err != nil {
			return result, err
		}
	}

	// Top up until the fit is determined.
	for engine.State() != StateFitted {
		if !budgetLeft() {
			result.Reason = StopBudget

			return result, nil
		}

		if err := evaluate(phaseInitial, firstUnsampled(engine)); err != nil {
			return result, err
		}
	}

	// Phase 2: Fit and sample until the minimum is stable.
	for {
		if err := engine.Update(); err != nil {
			return result, err
		}

		minIndex, _ := engine.MinIndex()
		repeats, _ := engine.MinRepeatCount()

		result.MinIndex = minIndex
		metrics.minRepeats.Set(float64(repeats))

		logger.Debug("updated",
			"min_index", minIndex,
			"min_repeat_count", repeats,
			"mode", engine.Mode().String(),
		)

		if repeats >= maxRepeats {
			result.Reason = StopConverged

			break
		}

		next, err := engine.NextIndex()
		if errors.Is(err, ErrExhausted) {
			result.Reason = StopExhausted

			break
		}

		if err != nil {
			return result, err
		}

		if !budgetLeft() {
			result.Reason = StopBudget

			break
		}

		if err := evaluate(phaseSearch, next); err != nil {
			return result, err
		}
	}

	logger.Info("search finished",
		"reason", string(result.Reason),
		"evaluations", result.Evaluations,
		"best_index", result.BestIndex,
		"best_value", result.BestValue,
		"min_index", result.MinIndex,
	)

	return result, nil
}

// TuneParameter searches a LinearSpace for the parameter value that makes
// benchmarkFunc run fastest, using its wall-clock execution time in seconds
// as objective.
//
// Type Parameter:
//   - T: The numeric type of the parameter
//
// Returns:
// - T: The fastest measured parameter value
// - Result: The underlying search result, indices refer to the space
// - error: Validation, benchmark or context errors
//
// Usage example:
//
//	space := LinearSpace[int]{Min: 1, Max: 64, Steps: 64}
//
//	workers, result, err := TuneParameter(ctx, DefaultSearchConfig(), space,
//	    func(workers int) error {
//	        return runWorkload(workers)
//	    },
//	)
//
// Important notes:
// - A failing benchmark aborts the search
// - Noisy benchmarks benefit from a larger Alpha
func TuneParameter[T Number](
	ctx context.Context,
	config SearchConfig,
	space LinearSpace[T],
	benchmarkFunc BenchmarkFunc[T],
) (T, Result, error) {
	var zero T

	if err := space.Validate(); err != nil {
		return zero, Result{MinIndex: -1, BestIndex: -1}, err
	}

	result, err := Search(ctx, config, space.Steps, func(index int) (float64, error) {
		return measureExecutionTime(benchmarkFunc, space.Value(index))
	})
	if err != nil {
		return zero, result, err
	}

	if result.BestIndex < 0 {
		return zero, result, nil
	}

	return space.Value(result.BestIndex), result, nil
}

//////
// Helper functions.
//////

// firstUnsampled returns the first unsampled default initial index, else the
// lowest unsampled index.
func firstUnsampled(e *Engine) int {
	for _, i := range DefaultInitialIndexes(e.Size()) {
		if !e.IsSampled(i) {
			return i
		}
	}

	for i := 0; i < e.Size(); i++ {
		if !e.IsSampled(i) {
			return i
		}
	}

	return -1
}
