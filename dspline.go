package dspline

import (
	"fmt"
	"math"
)

//////
// Const, vars, types.
//////

const (
	// MinSamples is the number of distinct samples required before Update
	// solves the system. Fewer samples leave the trailing unknowns without
	// meaningful pivots.
	MinSamples = 4

	// interpolatedPerGap is the number of auxiliary unknowns between two
	// consecutive sample positions.
	interpolatedPerGap = 2

	// markerOffset is the number of leading buffer unknowns before the
	// marker of sample 0.
	markerOffset = 2

	// zeroAlpha replaces an alpha of exactly zero, which would leave the
	// smoothness rows empty and require every index to be sampled.
	zeroAlpha = 1e-10
)

// State is the lifecycle stage of an Engine.
type State int

const (
	// StateEmpty means no sample was added.
	StateEmpty State = iota

	// StateUnderdetermined means 1 to MinSamples-1 samples were added; Update
	// is a no-op.
	StateUnderdetermined

	// StateFitted means at least MinSamples samples were added; Update
	// recomputes the fit whenever it is stale.
	StateFitted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateUnderdetermined:
		return "underdetermined"
	default:
		return "fitted"
	}
}

// Engine is an incrementally updated d-spline over N equally spaced sample
// indices. It keeps the regularized least-squares system triangularized as
// samples arrive, so each Add costs a handful of Givens rotations instead
// of a full re-factorization, and suggests the next index to sample from
// the current fit.
//
// The unknown vector has 3N+2 entries: two buffer unknowns at each end and
// two auxiliary unknowns between consecutive sample positions. Sample index
// i maps to unknown 3i+2, its marker.
//
// Lifecycle:
// - Empty: no samples
// - Underdetermined: 1 to MinSamples-1 samples, Update does nothing
// - Fitted: MinSamples or more samples, Update refreshes the fit
//
// Thread safety:
//   - Not safe for concurrent mutation; serialize Add, AddMany and Update
//     externally (one lock per engine)
//   - Reads after the most recent Update has returned may be shared, since
//     every accessor returns a copy
type Engine struct {
	// size is N, the number of sample positions.
	size int

	// alpha is the smoothness weight of the second-difference rows.
	alpha float64

	sys    *bandSystem
	ledger *ledger

	// f is the full solution, markers its sample-aligned subsequence and fd
	// the interior curvature of markers.
	f       []float64
	markers []float64
	fd      []float64

	sel selection

	// solved is set by the first successful solve; stale by every Add after
	// it.
	solved bool
	stale  bool
}

//////
// Methods.
//////

// Size returns N, the number of sample positions.
func (e *Engine) Size() int {
	return e.size
}

// Alpha returns the regularization weight in effect.
func (e *Engine) Alpha() float64 {
	return e.alpha
}

// UnknownCount returns 3N+2, the length of the solution vector.
func (e *Engine) UnknownCount() int {
	return e.sys.n
}

// MarkerIndex returns the position of sample index i in the solution vector.
func (e *Engine) MarkerIndex(i int) int {
	return markerOffset + i*(interpolatedPerGap+1)
}

// NearestSampleIndex maps a position of the solution vector to the closest
// sample index. Buffer unknowns map to the nearest end.
//
// Returns:
// - int: Sample index in [0, N)
// - error: ErrIndexOutOfRange if unknown is outside [0, 3N+2)
func (e *Engine) NearestSampleIndex(unknown int) (int, error) {
	if unknown < 0 || unknown >= e.sys.n {
		return 0, fmt.Errorf("%w: unknown %d not in [0, %d)", ErrIndexOutOfRange, unknown, e.sys.n)
	}

	if unknown < markerOffset {
		return 0, nil
	}

	return min((unknown-1)/(interpolatedPerGap+1), e.size-1), nil
}

// State reports the lifecycle stage from the number of distinct samples.
func (e *Engine) State() State {
	switch c := e.ledger.count(); {
	case c == 0:
		return StateEmpty
	case c < MinSamples:
		return StateUnderdetermined
	default:
		return StateFitted
	}
}

// Stale reports whether samples were added since the last solve.
func (e *Engine) Stale() bool {
	return e.stale
}

// Add records the observation value at sample index and eliminates it into
// the triangular system.
//
// Parameters:
// - index: Sample index in [0, N)
// - value: Observed value (for example an execution time)
//
// Returns:
// - bool: true if the sample was applied, false if index was already sampled
// - error: ErrIndexOutOfRange if index is outside [0, N)
//
// Usage example:
//
//	e, _ := New(6, 0.1)
//	added, err := e.Add(2, 1.0)    // true, nil
//	added, err = e.Add(2, 7.5)     // false, nil: duplicates are ignored
//	added, err = e.Add(6, 1.0)     // false, ErrIndexOutOfRange
//
// Important notes:
// - A duplicate leaves the ledger and the fit exactly as they were
// - A successful Add marks the fit stale until the next Update
// - The cost is bounded by the rows touched, not by the number of samples
func (e *Engine) Add(index int, value float64) (bool, error) {
	if index < 0 || index >= e.size {
		return false, fmt.Errorf("%w: index %d not in [0, %d)", ErrIndexOutOfRange, index, e.size)
	}

	if !e.ledger.record(index, value) {
		return false, nil
	}

	e.sys.eliminate(e.MarkerIndex(index), value)
	e.stale = true

	return true, nil
}

// AddMany adds a batch of samples in order, skipping duplicates, including
// duplicates inside the batch.
//
// Returns:
// - int: Number of samples applied
// - error: ErrLengthMismatch, or ErrIndexOutOfRange for the first bad index
//
// Important notes:
//   - Samples before an out-of-range index stay applied
//   - A single Update after the batch is enough
func (e *Engine) AddMany(indices []int, values []float64) (int, error) {
	if len(indices) != len(values) {
		return 0, fmt.Errorf("%w: %d indices, %d values", ErrLengthMismatch, len(indices), len(values))
	}

	applied := 0

	for i, index := range indices {
		added, err := e.Add(index, values[i])
		if err != nil {
			return applied, err
		}

		if added {
			applied++
		}
	}

	return applied, nil
}

// Update refreshes the solution, the curvature profile and the next-point
// suggestion.
//
// Behavior by state:
// - Empty, Underdetermined: no-op, returns nil
// - Fitted and stale: solves and selects
// - Fitted and current: no-op, the repeat counter does not move
//
// Returns:
// - error: ErrSingular if a pivot is zero; the previous fit is kept
func (e *Engine) Update() error {
	if e.State() != StateFitted {
		return nil
	}

	if e.solved && !e.stale {
		return nil
	}

	if err := e.sys.solve(e.f); err != nil {
		return err
	}

	for i := range e.markers {
		e.markers[i] = e.f[e.MarkerIndex(i)]
	}

	e.fd = SecondDifferences(e.markers)
	e.sel = selectNext(e.sel, e.markers, e.fd, e.ledger.sampled)
	e.solved = true
	e.stale = false

	return nil
}

// ready guards every read of solved state.
func (e *Engine) ready() error {
	if !e.solved {
		return ErrNotFitted
	}

	if e.stale {
		return ErrStale
	}

	return nil
}

// Solution returns a copy of the full solution vector, length 3N+2.
func (e *Engine) Solution() ([]float64, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	return cloneFloats(e.f), nil
}

// Markers returns a copy of the fitted values at the N sample positions.
func (e *Engine) Markers() ([]float64, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	return cloneFloats(e.markers), nil
}

// SampleValue returns the fitted value at sample index i.
func (e *Engine) SampleValue(i int) (float64, error) {
	if i < 0 || i >= e.size {
		return 0, fmt.Errorf("%w: index %d not in [0, %d)", ErrIndexOutOfRange, i, e.size)
	}

	if err := e.ready(); err != nil {
		return 0, err
	}

	return e.markers[i], nil
}

// Curvature returns a copy of the interior curvature profile, length N-2.
// Element j belongs to sample index j+1.
func (e *Engine) Curvature() ([]float64, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	return cloneFloats(e.fd), nil
}

// NextIndex returns the suggested index to sample next.
//
// Returns:
// - int: Suggested sample index
// - error: ErrNotFitted, ErrStale, or ErrExhausted when the fitted minimum is
// already sampled and every interior index has been sampled too
func (e *Engine) NextIndex() (int, error) {
	if err := e.ready(); err != nil {
		return -1, err
	}

	if e.sel.mode == ModeExhausted {
		return -1, ErrExhausted
	}

	return e.sel.nextIndex, nil
}

// Exhausted reports whether the last Update found nothing left to explore.
func (e *Engine) Exhausted() bool {
	return e.sel.mode == ModeExhausted
}

// Mode returns how the last suggestion was chosen.
func (e *Engine) Mode() Mode {
	return e.sel.mode
}

// MinIndex returns the sample index of the smallest fitted marker, first
// occurrence on ties.
func (e *Engine) MinIndex() (int, error) {
	if err := e.ready(); err != nil {
		return -1, err
	}

	return e.sel.minIndex, nil
}

// MinRepeatCount returns how many consecutive solved updates produced the
// current MinIndex. Callers typically stop searching once it reaches a
// threshold.
func (e *Engine) MinRepeatCount() (int, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}

	return e.sel.repeats, nil
}

// SampleCount returns the number of distinct samples added.
func (e *Engine) SampleCount() int {
	return e.ledger.count()
}

// IsSampled reports whether sample index i was added. Out-of-range indices
// report false.
func (e *Engine) IsSampled(i int) bool {
	return i >= 0 && i < e.size && e.ledger.sampled[i]
}

// AddedIndices returns the sampled indices in insertion order.
func (e *Engine) AddedIndices() []int {
	indices := make([]int, len(e.ledger.indices))
	copy(indices, e.ledger.indices)

	return indices
}

// AddedValues returns the sampled values in insertion order.
func (e *Engine) AddedValues() []float64 {
	return cloneFloats(e.ledger.values)
}

// LastAddedIndex returns the most recently added index. It reflects the
// ledger, not the solved state, so it is available before any Update.
func (e *Engine) LastAddedIndex() (int, error) {
	i, ok := e.ledger.last()
	if !ok {
		return -1, ErrNoSamples
	}

	return i, nil
}

// Clone returns an independent deep copy of the engine, including its
// factorization, ledger and selection state.
func (e *Engine) Clone() *Engine {
	return &Engine{
		size:    e.size,
		alpha:   e.alpha,
		sys:     e.sys.clone(),
		ledger:  e.ledger.clone(),
		f:       cloneFloats(e.f),
		markers: cloneFloats(e.markers),
		fd:      cloneFloats(e.fd),
		sel:     e.sel,
		solved:  e.solved,
		stale:   e.stale,
	}
}

//////
// Factory.
//////

// New creates an engine for n sample positions and smoothness weight alpha.
//
// Parameters:
// - n: Number of equally spaced sample positions, at least MinSamples
// - alpha: Regularization weight; 0 is replaced by a tiny positive value
//
// Returns:
// - *Engine: Empty engine
// - error: ErrInvalidSize or ErrInvalidAlpha
//
// Usage example:
//
//	e, err := New(6, 0.1)
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
//
// Best practices:
// - Larger alpha gives smoother fits and more exploration driven by curvature
// - 0.1 works well for normalized objectives
func New(n int, alpha float64) (*Engine, error) {
	if n < MinSamples {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}

	if alpha < 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidAlpha, alpha)
	}

	if alpha == 0 {
		alpha = zeroAlpha
	}

	unknowns := n + 2*markerOffset + interpolatedPerGap*(n-1)

	return &Engine{
		size:    n,
		alpha:   alpha,
		sys:     newBandSystem(unknowns, alpha),
		ledger:  newLedger(n),
		f:       make([]float64, unknowns),
		markers: make([]float64, n),
		sel:     selection{minIndex: -1, nextIndex: -1},
	}, nil
}
