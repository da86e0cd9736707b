package dspline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BatchSolve solves the full regularized least-squares problem from scratch:
// the n-2 second-difference rows of an N-point d-spline plus one equality
// row per sample, factorized with a dense QR decomposition.
//
// It is the reference an Engine must agree with after Update, and is meant
// for verification and debugging. It costs O((3N)^3) and ignores the
// incremental state entirely.
//
// Parameters:
// - n: Number of sample positions, at least MinSamples
// - alpha: Regularization weight (0 is replaced the same way New does)
// - indices, values: Distinct sample indices and their observed values
//
// Returns:
// - []float64: Solution vector of length 3N+2
// - error: Validation error, or the QR solver error if the system is singular
//
// Usage example:
//
//	want, err := BatchSolve(6, 0.1, []int{0, 2, 4, 5}, []float64{5, 1, 4, 6})
func BatchSolve(n int, alpha float64, indices []int, values []float64) ([]float64, error) {
	// New performs the same argument validation.
	e, err := New(n, alpha)
	if err != nil {
		return nil, err
	}

	if len(indices) != len(values) {
		return nil, fmt.Errorf("%w: %d indices, %d values", ErrLengthMismatch, len(indices), len(values))
	}

	unknowns := e.UnknownCount()
	smooth := unknowns - 2
	rows := smooth + len(indices)

	// QR least squares needs at least as many rows as columns.
	if rows < unknowns {
		return nil, fmt.Errorf("dspline: batch solve needs at least 2 samples, got %d", len(indices))
	}

	a := mat.NewDense(rows, unknowns, nil)
	b := mat.NewVecDense(rows, nil)

	for k := 0; k < smooth; k++ {
		a.Set(k, k, e.alpha)
		a.Set(k, k+1, -2*e.alpha)
		a.Set(k, k+2, e.alpha)
	}

	seen := make(map[int]bool, len(indices))

	for i, index := range indices {
		if index < 0 || index >= n {
			return nil, fmt.Errorf("%w: index %d not in [0, %d)", ErrIndexOutOfRange, index, n)
		}

		if seen[index] {
			return nil, fmt.Errorf("dspline: duplicate sample index %d", index)
		}

		seen[index] = true

		a.Set(smooth+i, e.MarkerIndex(index), 1)
		b.SetVec(smooth+i, values[i])
	}

	qr := new(mat.QR)
	qr.Factorize(a)

	f := mat.NewVecDense(unknowns, nil)
	if err := qr.SolveVecTo(f, false, b); err != nil {
		return nil, fmt.Errorf("could not solve QR: %w", err)
	}

	return mat.Col(nil, 0, f), nil
}
