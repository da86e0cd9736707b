package dspline

// ledger records which indices were observed, in insertion order.
//
// Invariant: len(indices) == len(values) == number of true entries in
// sampled.
type ledger struct {
	sampled []bool
	indices []int
	values  []float64
}

func newLedger(n int) *ledger {
	return &ledger{sampled: make([]bool, n)}
}

// record marks index as sampled. It returns false, leaving the ledger
// unchanged, when index was already recorded.
func (l *ledger) record(index int, value float64) bool {
	if l.sampled[index] {
		return false
	}

	l.sampled[index] = true
	l.indices = append(l.indices, index)
	l.values = append(l.values, value)

	return true
}

func (l *ledger) count() int {
	return len(l.indices)
}

func (l *ledger) last() (int, bool) {
	if len(l.indices) == 0 {
		return 0, false
	}

	return l.indices[len(l.indices)-1], true
}

func (l *ledger) clone() *ledger {
	c := &ledger{
		sampled: make([]bool, len(l.sampled)),
		indices: make([]int, len(l.indices)),
		values:  make([]float64, len(l.values)),
	}

	copy(c.sampled, l.sampled)
	copy(c.indices, l.indices)
	copy(c.values, l.values)

	return c
}
