// Package dspline approximates an expensive performance function over a
// discrete, equally spaced 1-D index space with an incrementally updated
// d-spline, and recommends the next index to sample. It is the fitting
// engine behind autotuning loops where every evaluation costs real time,
// such as running a benchmark.
//
// # Features
//
// The package includes the following key features:
//
//   - Incremental Fitting: Each new sample is folded into the triangular
//     least-squares system with a few Givens rotations; nothing is
//     re-factorized
//   - Exact Results: The incremental fit equals the batch regularized
//     least-squares solution (see BatchSolve)
//   - Next-Point Suggestion: Exploits the fitted minimum when it is
//     unsampled, explores the most curved unsampled index otherwise
//   - Convergence Signal: Counts how many consecutive updates produced the
//     same fitted minimum
//   - Search Loop: Search and TuneParameter drive the engine end to end with
//     progress updates, structured logging and Prometheus metrics
//
// # The d-spline
//
// For N sample positions the engine keeps 3N+2 unknowns: the N markers,
// two auxiliary unknowns between each pair of neighbours, and two buffer
// unknowns at each end. The fit minimizes
//
//	sum_k (alpha·(f[k] - 2·f[k+1] + f[k+2]))^2 + sum_i (f[3i+2] - y_i)^2
//
// over every sampled index i. The smoothness rows alone have a 2-D null
// space, so Update only solves once MinSamples distinct samples exist.
//
// # Basic Usage
//
//	e, err := dspline.New(6, 0.1)
//	if err != nil {
//	    return err
//	}
//
//	e.AddMany([]int{0, 2, 4, 5}, []float64{5, 1, 4, 6})
//
//	if err := e.Update(); err != nil {
//	    return err
//	}
//
//	next, err := e.NextIndex()
//	if errors.Is(err, dspline.ErrExhausted) {
//	    // Nothing left to explore.
//	}
//
// Reads of solved state return ErrNotFitted before the first fit and
// ErrStale when samples were added after the last Update.
//
// # Search
//
//	result, err := dspline.Search(ctx, dspline.DefaultSearchConfig(), n,
//	    func(index int) (float64, error) {
//	        return measure(index)
//	    },
//	)
//
// # Thread Safety
//
// An Engine is not safe for concurrent mutation. Serialize Add, AddMany and
// Update with one lock per engine. Accessors return copies, so results read
// after an Update may be shared freely.
package dspline
