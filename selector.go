package dspline

//////
// Const, vars, types.
//////

// Mode tells how the last suggestion was chosen.
type Mode int

const (
	// ModeNone means no suggestion has been computed yet.
	ModeNone Mode = iota

	// ModeExploit means the fitted minimum is unsampled and is suggested
	// as-is.
	ModeExploit

	// ModeExplore means the fitted minimum is already sampled, so the
	// unsampled interior index with the largest curvature is suggested.
	ModeExplore

	// ModeExhausted means exploration found no unsampled interior index.
	ModeExhausted
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeExploit:
		return "exploit"
	case ModeExplore:
		return "explore"
	case ModeExhausted:
		return "exhausted"
	default:
		return "none"
	}
}

// selection is the Next-Point Selector state carried between updates.
type selection struct {
	minIndex  int
	nextIndex int
	repeats   int
	mode      Mode
}

//////
// Helper functions.
//////

// argmin returns the index of the smallest value, first occurrence on ties.
func argmin(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] < values[best] {
			best = i
		}
	}

	return best
}

// mostCurvedUnsampled returns the unsampled interior index with the largest
// curvature, lowest index on ties, or -1 when every interior index is
// sampled. fd[j] belongs to index j+1.
func mostCurvedUnsampled(fd []float64, sampled []bool) int {
	best := -1
	for j, v := range fd {
		if sampled[j+1] {
			continue
		}

		if best < 0 || v > fd[best-1] {
			best = j + 1
		}
	}

	return best
}

// selectNext chooses the next index from the fitted markers and their
// curvature, and advances the repeat counter relative to prev.
func selectNext(prev selection, markers, fd []float64, sampled []bool) selection {
	next := selection{minIndex: argmin(markers)}

	if sampled[next.minIndex] {
		next.nextIndex = mostCurvedUnsampled(fd, sampled)
		next.mode = ModeExplore

		if next.nextIndex < 0 {
			next.mode = ModeExhausted
		}
	} else {
		next.nextIndex = next.minIndex
		next.mode = ModeExploit
	}

	if prev.mode != ModeNone && prev.minIndex == next.minIndex {
		next.repeats = prev.repeats + 1
	} else {
		next.repeats = 1
	}

	return next
}
