package dspline

import "math"

//////
// Const, vars, types.
//////

// bandWidth is the number of stored coefficients per row of the triangular
// system. Row k keeps its entries for columns k, k+1 and k+2.
const bandWidth = 3

// bandSystem is the regularized least-squares system Z·f = b kept in
// upper-triangular band form.
//
// Fields:
// - n: Number of unknowns (3N+2)
// - z: Row-major band coefficients, bandWidth entries per row
// - b: Right-hand side, one entry per row
//
// Invariants:
//   - z is upper triangular with bandwidth 3 after every call to eliminate
//   - The first n-2 rows start as the second-difference penalty
//     alpha·(1, -2, 1); rows n-2 and n-1 start empty and are filled by the
//     first two observations
type bandSystem struct {
	n int
	z []float64
	b []float64
}

//////
// Methods.
//////

// givens computes the plane rotation that zeroes b against a.
//
//	⎡ c s⎤⎡a⎤ = ⎡r⎤
//	⎣-s c⎦⎣b⎦   ⎣0⎦
//
// A zero-length input yields the identity rotation.
func givens(a, b float64) (c, s float64) {
	r := math.Hypot(a, b)
	if r == 0 {
		return 1, 0
	}

	return a / r, b / r
}

// rotate applies one Givens rotation between pivot row k and the carried
// observation row, whose two nonzero coefficients sit at columns k (lead)
// and k+1 (next). It returns the carried row shifted one column to the
// right, along with its rotated right-hand side.
func (s *bandSystem) rotate(k int, lead, next, rhs float64) (float64, float64, float64) {
	row := s.z[bandWidth*k : bandWidth*k+bandWidth : bandWidth*k+bandWidth]

	c, sn := givens(row[0], lead)

	z0, z1, z2 := row[0], row[1], row[2]

	row[0] = c*z0 + sn*lead
	row[1] = c*z1 + sn*next
	row[2] = c * z2

	newLead := -sn*z1 + c*next
	newNext := -sn * z2

	bk := s.b[k]
	s.b[k] = c*bk + sn*rhs

	return newLead, newNext, -sn*bk + c*rhs
}

// eliminate folds the equality row f[col] = value into the triangular system.
//
// The carried row starts as a single 1 at col and walks down the diagonal.
// Each rotation pushes its remainder one column right; it stops as soon as
// both carried coefficients vanish, so only the rows touched by the new
// constraint are visited. The residual right-hand side left in the carried
// row is the least-squares residual and is dropped.
func (s *bandSystem) eliminate(col int, value float64) {
	lead, next := 1.0, 0.0

	for k := col; k < s.n; k++ {
		if lead == 0 {
			if next == 0 {
				return
			}

			// Leading entry already zero: the row starts one column later.
			lead, next = next, 0

			continue
		}

		lead, next, value = s.rotate(k, lead, next, value)
	}
}

// diagonal returns the pivot of row k.
func (s *bandSystem) diagonal(k int) float64 {
	return s.z[bandWidth*k]
}

// clone returns an independent copy of the system.
func (s *bandSystem) clone() *bandSystem {
	z := make([]float64, len(s.z))
	copy(z, s.z)

	b := make([]float64, len(s.b))
	copy(b, s.b)

	return &bandSystem{n: s.n, z: z, b: b}
}

//////
// Factory.
//////

// newBandSystem builds the smoothness-only system for n unknowns. It is
// rank deficient by two until observations are eliminated into it.
func newBandSystem(n int, alpha float64) *bandSystem {
	s := &bandSystem{
		n: n,
		z: make([]float64, bandWidth*n),
		b: make([]float64, n),
	}

	for k := 0; k < n-2; k++ {
		s.z[bandWidth*k] = alpha
		s.z[bandWidth*k+1] = -2 * alpha
		s.z[bandWidth*k+2] = alpha
	}

	return s
}
