package dspline

import "fmt"

// solve back-substitutes the triangular band system into f, which must have
// length s.n. f is only written when every pivot is nonzero, so a failed
// solve leaves the previous solution untouched.
//
// Unknown n-1 depends only on itself, n-2 on itself and n-1, and every other
// unknown k on k, k+1 and k+2.
func (s *bandSystem) solve(f []float64) error {
	for k := 0; k < s.n; k++ {
		if s.diagonal(k) == 0 {
			return fmt.Errorf("%w: zero pivot at row %d", ErrSingular, k)
		}
	}

	last := s.n - 1
	f[last] = s.b[last] / s.diagonal(last)

	if s.n > 1 {
		k := s.n - 2
		f[k] = (s.b[k] - s.z[bandWidth*k+1]*f[k+1]) / s.diagonal(k)
	}

	for k := s.n - 3; k >= 0; k-- {
		row := s.z[bandWidth*k : bandWidth*k+bandWidth]
		f[k] = (s.b[k] - row[1]*f[k+1] - row[2]*f[k+2]) / row[0]
	}

	return nil
}
