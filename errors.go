package dspline

import "errors"

//////
// Errors.
//////

var (
	// ErrInvalidSize is returned by New when the domain is too small to ever
	// be fitted.
	ErrInvalidSize = errors.New("dspline: domain size must be at least MinSamples")

	// ErrInvalidAlpha is returned by New for a negative, NaN or infinite
	// regularization weight.
	ErrInvalidAlpha = errors.New("dspline: alpha must be a finite, non-negative number")

	// ErrIndexOutOfRange is returned when a sample index falls outside [0, N).
	ErrIndexOutOfRange = errors.New("dspline: sample index out of range")

	// ErrLengthMismatch is returned by AddMany when indices and values differ
	// in length.
	ErrLengthMismatch = errors.New("dspline: indices and values length mismatch")

	// ErrNoSamples is returned when the ledger is still empty.
	ErrNoSamples = errors.New("dspline: no samples added")

	// ErrNotFitted is returned when reading solved state before the first
	// successful Update.
	ErrNotFitted = errors.New("dspline: not fitted, at least MinSamples distinct samples and an Update are required")

	// ErrStale is returned when reading solved state after samples were added
	// but before Update was called again.
	ErrStale = errors.New("dspline: fit is stale, call Update")

	// ErrExhausted is returned by NextIndex when the current minimum is
	// already sampled and no unsampled interior index is left to explore.
	ErrExhausted = errors.New("dspline: search space exhausted")

	// ErrSingular is returned when back-substitution meets a zero pivot.
	ErrSingular = errors.New("dspline: triangular system is singular")
)
