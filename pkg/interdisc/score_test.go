package interdisc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// worked example: 3 venues with row-normalized profiles
// [[0,1,0],[0.5,0,0.5],[0,0,1]]
func exampleMatrix(t *testing.T) *Matrix {
	t.Helper()
	m, err := NewMatrix(
		[]string{"A0", "A1", "A2"},
		[]Entry{
			{Row: 0, Col: 1, Count: 5},
			{Row: 1, Col: 0, Count: 2},
			{Row: 1, Col: 2, Count: 2},
			{Row: 2, Col: 2, Count: 3},
		},
	)
	require.NoError(t, err)
	return m
}

func TestIntegrator_WorkedExample(t *testing.T) {
	m := exampleMatrix(t)

	// outgoing counts [0,2,0] normalize to P=[0,1,0]; the only venue
	// cited is V1, so the score is exactly JS(P, row 1) * 1.
	counts := []float64{0, 2, 0}
	got := Integrator(counts, m)

	want := JensenShannon([]float64{0, 1, 0}, []float64{0.5, 0, 0.5})
	assert.InDelta(t, want, got, 1e-12)

	// P and row 1 have disjoint support, so the divergence is exactly 1.
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestIntegrator_MultipleVenues(t *testing.T) {
	m := exampleMatrix(t)

	counts := []float64{1, 1, 2}
	p := []float64{0.25, 0.25, 0.5}
	dst := make([]float64, 3)
	want := JensenShannon(p, m.RowProfile(0, dst))*0.25 +
		JensenShannon(p, m.RowProfile(1, dst))*0.25 +
		JensenShannon(p, m.RowProfile(2, dst))*0.5

	assert.InDelta(t, want, Integrator(counts, m), 1e-12)
}

func TestBroadcast_UsesColumns(t *testing.T) {
	m := exampleMatrix(t)

	counts := []float64{0, 0, 5}
	got := Broadcast(counts, m)

	// P=[0,0,1]; column 2 normalizes to [0, 0.4, 0.6]
	want := JensenShannon([]float64{0, 0, 1}, []float64{0, 0.4, 0.6})
	assert.InDelta(t, want, got, 1e-12)
}

func TestScores_ZeroTotalShortCircuits(t *testing.T) {
	m := exampleMatrix(t)
	assert.Equal(t, 0.0, Integrator([]float64{0, 0, 0}, m))
	assert.Equal(t, 0.0, Broadcast([]float64{0, 0, 0}, m))
}

func TestScores_LengthMismatchPanics(t *testing.T) {
	m := exampleMatrix(t)
	assert.Panics(t, func() { Integrator([]float64{1, 2}, m) })
}

func TestIntegrator_SelfProfileScoresZero(t *testing.T) {
	// citing only a self-citing venue matches that venue's own profile
	m, err := NewMatrix(
		[]string{"A0", "A1"},
		[]Entry{
			{Row: 0, Col: 0, Count: 4},
			{Row: 1, Col: 1, Count: 4},
		},
	)
	require.NoError(t, err)

	// P=[1,0], row 0 profile=[1,0]: JS(P,P)=0
	assert.Equal(t, 0.0, Integrator([]float64{3, 0}, m))
}
