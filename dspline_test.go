package dspline

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exactnessTolerance bounds the difference between the incremental and the
// batch solution.
const exactnessTolerance = 1e-5

func TestNewValidation(t *testing.T) {
	_, err := New(MinSamples-1, 0.1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = New(10, -0.1)
	assert.ErrorIs(t, err, ErrInvalidAlpha)

	e, err := New(10, 0)
	require.NoError(t, err)

	// Zero alpha is replaced so the smoothness rows keep nonzero pivots.
	assert.Greater(t, e.Alpha(), 0.0)

	assert.Equal(t, 10, e.Size())
	assert.Equal(t, 32, e.UnknownCount())
	assert.Equal(t, StateEmpty, e.State())
}

func TestIncrementalMatchesBatch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, n := range []int{4, 5, 6, 10, 17, 30} {
		for run := 0; run < 5; run++ {
			e, err := New(n, 0.1)
			require.NoError(t, err)

			for step, index := range rng.Perm(n) {
				added, err := e.Add(index, rng.Float64()*10)
				require.NoError(t, err)
				require.True(t, added)

				require.NoError(t, e.Update())

				if step+1 < MinSamples {
					require.Equal(t, StateUnderdetermined, e.State())

					continue
				}

				got, err := e.Solution()
				require.NoError(t, err)

				want, err := BatchSolve(n, 0.1, e.AddedIndices(), e.AddedValues())
				require.NoError(t, err)

				require.Len(t, got, 3*n+2)
				assert.InDeltaSlice(t, want, got, exactnessTolerance, "n=%d samples=%d", n, step+1)
			}
		}
	}
}

func TestIncrementalMatchesBatchAtThreshold(t *testing.T) {
	// Exactly MinSamples samples, clustered at either end or adjacent, for
	// several domain sizes.
	placements := func(n int) [][]int {
		return [][]int{
			{0, 1, 2, 3},
			{n - 4, n - 3, n - 2, n - 1},
			{0, 1, n - 2, n - 1},
			DefaultInitialIndexes(n),
		}
	}

	for _, n := range []int{4, 8, 25, 40} {
		for _, indices := range placements(n) {
			values := []float64{3, -1, 2.5, 7}

			e, err := New(n, 0.1)
			require.NoError(t, err)

			applied, err := e.AddMany(indices, values)
			require.NoError(t, err)
			require.Equal(t, MinSamples, applied)

			require.NoError(t, e.Update())

			got, err := e.Solution()
			require.NoError(t, err)

			want, err := BatchSolve(n, 0.1, indices, values)
			require.NoError(t, err)

			assert.InDeltaSlice(t, want, got, exactnessTolerance, "n=%d indices=%v", n, indices)
		}
	}
}

func TestDuplicateAddIsNoOp(t *testing.T) {
	e, err := New(8, 0.1)
	require.NoError(t, err)

	_, err = e.AddMany([]int{0, 3, 5, 7}, []float64{4, 1, 2, 6})
	require.NoError(t, err)
	require.NoError(t, e.Update())

	before, err := e.Solution()
	require.NoError(t, err)

	added, err := e.Add(3, 100)
	require.NoError(t, err)
	assert.False(t, added)

	// Duplicates do not make the fit stale.
	assert.False(t, e.Stale())
	require.NoError(t, e.Update())

	after, err := e.Solution()
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, 4, e.SampleCount())
	assert.Equal(t, []int{0, 3, 5, 7}, e.AddedIndices())
	assert.Equal(t, []float64{4, 1, 2, 6}, e.AddedValues())
}

func TestSampleCountIsMonotonic(t *testing.T) {
	e, err := New(6, 0.1)
	require.NoError(t, err)

	sequence := []int{1, 1, 4, 0, 4, 5, 2, 2, 3}
	expected := 0

	for _, index := range sequence {
		added, err := e.Add(index, float64(index))
		require.NoError(t, err)

		if added {
			expected++
		}

		assert.Equal(t, expected, e.SampleCount())
		assert.Len(t, e.AddedIndices(), expected)
		assert.Len(t, e.AddedValues(), expected)
	}

	assert.Equal(t, 6, e.SampleCount())

	// Every index is sampled, nothing can be added anymore.
	for i := 0; i < e.Size(); i++ {
		added, err := e.Add(i, 0)
		require.NoError(t, err)
		assert.False(t, added)
	}
}

func TestAddOutOfRange(t *testing.T) {
	e, err := New(6, 0.1)
	require.NoError(t, err)

	for _, index := range []int{-1, 6, 100} {
		added, err := e.Add(index, 1)
		assert.False(t, added)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}

	assert.Equal(t, 0, e.SampleCount())
	assert.Equal(t, StateEmpty, e.State())
}

func TestAddMany(t *testing.T) {
	e, err := New(6, 0.1)
	require.NoError(t, err)

	_, err = e.AddMany([]int{0, 1}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	// Duplicates inside the batch are skipped.
	applied, err := e.AddMany([]int{0, 2, 2, 4}, []float64{5, 1, 9, 4})
	require.NoError(t, err)
	assert.Equal(t, 3, applied)
	assert.Equal(t, []float64{5, 1, 4}, e.AddedValues())

	// An out-of-range index stops the batch, earlier samples stay.
	applied, err = e.AddMany([]int{5, 9, 3}, []float64{6, 0, 2})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 1, applied)
	assert.Equal(t, []int{0, 2, 4, 5}, e.AddedIndices())
}

func TestStateMachineAndReadiness(t *testing.T) {
	e, err := New(6, 0.1)
	require.NoError(t, err)

	_, err = e.LastAddedIndex()
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = e.Solution()
	assert.ErrorIs(t, err, ErrNotFitted)

	for i, index := range []int{0, 2, 4} {
		_, err := e.Add(index, float64(i))
		require.NoError(t, err)

		assert.Equal(t, StateUnderdetermined, e.State())

		// Underdetermined updates are silent no-ops.
		require.NoError(t, e.Update())

		_, err = e.Markers()
		assert.ErrorIs(t, err, ErrNotFitted)

		last, err := e.LastAddedIndex()
		require.NoError(t, err)
		assert.Equal(t, index, last)
	}

	_, err = e.Add(5, 6)
	require.NoError(t, err)
	assert.Equal(t, StateFitted, e.State())

	// Fitted by count but not solved yet.
	_, err = e.NextIndex()
	assert.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, e.Update())
	assert.False(t, e.Stale())

	_, err = e.Curvature()
	require.NoError(t, err)

	_, err = e.Add(1, 2)
	require.NoError(t, err)
	assert.True(t, e.Stale())

	// The ledger is current even though the fit is stale.
	last, err := e.LastAddedIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, last)

	_, err = e.MinIndex()
	assert.ErrorIs(t, err, ErrStale)

	_, err = e.SampleValue(1)
	assert.ErrorIs(t, err, ErrStale)

	require.NoError(t, e.Update())

	_, err = e.MinIndex()
	assert.NoError(t, err)
}

func TestScenarioSixPoints(t *testing.T) {
	indices := []int{0, 2, 4, 5}
	values := []float64{5, 1, 4, 6}

	e, err := New(6, 0.1)
	require.NoError(t, err)

	_, err = e.AddMany(indices, values)
	require.NoError(t, err)
	require.Equal(t, 4, e.SampleCount())

	require.NoError(t, e.Update())

	want, err := BatchSolve(6, 0.1, indices, values)
	require.NoError(t, err)

	wantMarkers := make([]float64, 6)
	for i := range wantMarkers {
		wantMarkers[i] = want[e.MarkerIndex(i)]
	}

	markers, err := e.Markers()
	require.NoError(t, err)
	assert.InDeltaSlice(t, wantMarkers, markers, exactnessTolerance)

	minIndex, err := e.MinIndex()
	require.NoError(t, err)
	assert.Equal(t, argmin(wantMarkers), minIndex)
	assert.Equal(t, 2, minIndex)

	// The minimum is already sampled: explore the unsampled interior
	// indices {1, 3} by curvature.
	assert.Equal(t, ModeExplore, e.Mode())

	fd, err := e.Curvature()
	require.NoError(t, err)
	require.Len(t, fd, 4)

	next, err := e.NextIndex()
	require.NoError(t, err)
	assert.Contains(t, []int{1, 3}, next)

	if fd[0] >= fd[2] {
		assert.Equal(t, 1, next)
	} else {
		assert.Equal(t, 3, next)
	}

	repeats, err := e.MinRepeatCount()
	require.NoError(t, err)
	assert.Equal(t, 1, repeats)

	value, err := e.SampleValue(2)
	require.NoError(t, err)
	assert.InDelta(t, markers[2], value, 0)
}

func TestSelectionNeverSuggestsSampledIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 20; run++ {
		n := 4 + rng.Intn(20)

		e, err := New(n, 0.1)
		require.NoError(t, err)

		for _, index := range rng.Perm(n) {
			_, err := e.Add(index, rng.NormFloat64())
			require.NoError(t, err)
			require.NoError(t, e.Update())

			if e.State() != StateFitted {
				continue
			}

			next, err := e.NextIndex()
			if errors.Is(err, ErrExhausted) {
				// Only allowed once every interior index is sampled.
				for i := 1; i < n-1; i++ {
					assert.True(t, e.IsSampled(i), "n=%d index=%d", n, i)
				}

				continue
			}

			require.NoError(t, err)
			assert.False(t, e.IsSampled(next), "n=%d next=%d", n, next)
		}
	}
}

func TestMinRepeatCount(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	e, err := New(15, 0.1)
	require.NoError(t, err)

	previous, expected := -1, 0

	for _, index := range rng.Perm(15) {
		_, err := e.Add(index, rng.Float64())
		require.NoError(t, err)
		require.NoError(t, e.Update())

		if e.State() != StateFitted {
			continue
		}

		minIndex, err := e.MinIndex()
		require.NoError(t, err)

		if minIndex == previous {
			expected++
		} else {
			expected = 1
		}

		previous = minIndex

		repeats, err := e.MinRepeatCount()
		require.NoError(t, err)
		assert.Equal(t, expected, repeats)

		// Updating again without a new sample leaves the counter alone.
		require.NoError(t, e.Update())

		repeats, err = e.MinRepeatCount()
		require.NoError(t, err)
		assert.Equal(t, expected, repeats)
	}
}

func TestExhausted(t *testing.T) {
	e, err := New(4, 0.1)
	require.NoError(t, err)

	_, err = e.AddMany([]int{0, 1, 2, 3}, []float64{4, 2, 1, 3})
	require.NoError(t, err)
	require.NoError(t, e.Update())

	assert.True(t, e.Exhausted())
	assert.Equal(t, ModeExhausted, e.Mode())

	next, err := e.NextIndex()
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, -1, next)

	// The fit itself is still readable.
	minIndex, err := e.MinIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, minIndex)
}

func TestCurvatureExcludesBoundaries(t *testing.T) {
	e, err := New(9, 0.1)
	require.NoError(t, err)

	_, err = e.AddMany([]int{0, 3, 6, 8}, []float64{2, 0, 5, 1})
	require.NoError(t, err)
	require.NoError(t, e.Update())

	markers, err := e.Markers()
	require.NoError(t, err)

	fd, err := e.Curvature()
	require.NoError(t, err)

	require.Len(t, fd, 7)
	assert.Equal(t, SecondDifferences(markers), fd)
}

func TestMarkerMapping(t *testing.T) {
	e, err := New(5, 0.1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		marker := e.MarkerIndex(i)
		assert.Equal(t, 3*i+2, marker)

		nearest, err := e.NearestSampleIndex(marker)
		require.NoError(t, err)
		assert.Equal(t, i, nearest)
	}

	// Auxiliary unknowns map to the closest marker, buffers to the ends.
	cases := map[int]int{0: 0, 1: 0, 3: 0, 4: 1, 5: 1, 6: 1, 7: 2, 15: 4, 16: 4}
	for unknown, want := range cases {
		got, err := e.NearestSampleIndex(unknown)
		require.NoError(t, err)
		assert.Equal(t, want, got, "unknown=%d", unknown)
	}

	_, err = e.NearestSampleIndex(17)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestClone(t *testing.T) {
	e, err := New(8, 0.1)
	require.NoError(t, err)

	_, err = e.AddMany([]int{0, 2, 5, 7}, []float64{3, 1, 2, 4})
	require.NoError(t, err)
	require.NoError(t, e.Update())

	c := e.Clone()

	_, err = c.Add(3, 0.5)
	require.NoError(t, err)
	require.NoError(t, c.Update())

	// The source engine is untouched.
	assert.Equal(t, 4, e.SampleCount())
	assert.False(t, e.IsSampled(3))
	assert.False(t, e.Stale())

	got, err := c.Solution()
	require.NoError(t, err)

	want, err := BatchSolve(8, 0.1, c.AddedIndices(), c.AddedValues())
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, exactnessTolerance)
}
