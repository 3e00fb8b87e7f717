package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStddevSample(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{
			name:   "two values",
			values: []float64{2, 4},
			want:   math.Sqrt2,
		},
		{
			name:   "four values",
			values: []float64{2, 4, 4, 6},
			want:   math.Sqrt(8.0 / 3.0),
		},
		{
			name:   "skips missing",
			values: []float64{2, math.NaN(), 4},
			want:   math.Sqrt2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, stddev(tc.values), 1e-9)
		})
	}
}

func TestStddevUndefined(t *testing.T) {
	assert.True(t, math.IsNaN(stddev(nil)))
	assert.True(t, math.IsNaN(stddev([]float64{7})))
	assert.True(t, math.IsNaN(stddev([]float64{7, math.NaN()})))
}
