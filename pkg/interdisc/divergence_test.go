package interdisc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJensenShannon_Identity(t *testing.T) {
	p := []float64{0.2, 0.3, 0.5}
	assert.Equal(t, 0.0, JensenShannon(p, p))
}

func TestJensenShannon_DisjointSupport(t *testing.T) {
	// fully disjoint distributions are maximally divergent
	a := []float64{1, 0}
	b := []float64{0, 1}
	assert.InDelta(t, 1.0, JensenShannon(a, b), 1e-12)
}

func TestJensenShannon_KnownValue(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0.5, 0.5}
	// m = [0.75, 0.25]
	// KL(a||m) = log2(1/0.75)
	// KL(b||m) = 0.5*log2(0.5/0.75) + 0.5*log2(0.5/0.25)
	want := (math.Log2(1/0.75) + 0.5*math.Log2(0.5/0.75) + 0.5*math.Log2(0.5/0.25)) / 2
	assert.InDelta(t, want, JensenShannon(a, b), 1e-12)
	assert.InDelta(t, 0.311278, JensenShannon(a, b), 1e-6)
}

func TestJensenShannon_SymmetricAndBounded(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
	}{
		{"uniform vs point", []float64{0.25, 0.25, 0.25, 0.25}, []float64{0, 1, 0, 0}},
		{"partial overlap", []float64{0.5, 0.5, 0}, []float64{0, 0.5, 0.5}},
		{"both with zeros", []float64{0, 0.7, 0.3, 0}, []float64{0.1, 0, 0.9, 0}},
		{"same support", []float64{0.6, 0.4}, []float64{0.1, 0.9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ab := JensenShannon(tc.a, tc.b)
			ba := JensenShannon(tc.b, tc.a)
			assert.InDelta(t, ab, ba, 1e-12)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
			assert.False(t, math.IsNaN(ab))
			assert.False(t, math.IsInf(ab, 0))
		})
	}
}

func TestJensenShannon_LengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		JensenShannon([]float64{1}, []float64{0.5, 0.5})
	})
}

func TestDistribution(t *testing.T) {
	p := distribution([]float64{2, 0, 2})
	require.NotNil(t, p)
	assert.Equal(t, []float64{0.5, 0, 0.5}, p)

	assert.Nil(t, distribution([]float64{0, 0, 0}))
	assert.Nil(t, distribution(nil))
}
