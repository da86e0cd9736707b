package dspline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearSpaceInteger(t *testing.T) {
	space := LinearSpace[int64]{Min: 1024, Max: 4096, Steps: 4}

	assert.NoError(t, space.Validate())
	assert.Equal(t, []int64{1024, 2048, 3072, 4096}, space.Values())

	// Integer values are rounded to the nearest step.
	workers := LinearSpace[int]{Min: 1, Max: 4, Steps: 5}
	assert.Equal(t, []int{1, 2, 3, 3, 4}, workers.Values())
}

func TestLinearSpaceFloat(t *testing.T) {
	space := LinearSpace[float64]{Min: 0, Max: 1, Steps: 5}

	assert.NoError(t, space.Validate())
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, space.Values(), 1e-15)
}

func TestLinearSpaceValidate(t *testing.T) {
	assert.ErrorIs(t, LinearSpace[int]{Min: 0, Max: 10, Steps: 3}.Validate(), ErrInvalidSize)
	assert.Error(t, LinearSpace[float32]{Min: 2, Max: 1, Steps: 10}.Validate())
}
