package interdisc

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// JensenShannon computes the Jensen-Shannon divergence between two
// probability distributions in base 2, so the result lies in [0,1].
// It is symmetric and JensenShannon(p, p) == 0.
//
// Each Kullback-Leibler term is restricted to its own operand's support:
// indices where a[i] > 0 contribute to KL(a||m) and indices where
// b[i] > 0 contribute to KL(b||m). The two supports are never assumed to
// coincide; zeros in either operand are allowed and never divided by or
// passed to the logarithm.
//
// Panics if the slices have different lengths.
func JensenShannon(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("interdisc: distribution length mismatch")
	}

	// mean distribution
	m := make([]float64, len(a))
	floats.AddTo(m, a, b)
	floats.Scale(0.5, m)

	var kla, klb float64
	for i, v := range a {
		if v > 0 {
			kla += v * math.Log2(v/m[i])
		}
	}
	for i, v := range b {
		if v > 0 {
			klb += v * math.Log2(v/m[i])
		}
	}
	return (kla + klb) / 2
}

// distribution L1-normalizes a nonnegative count vector. It returns nil
// when the total is zero: a zero-total distribution is undefined and the
// caller short-circuits instead of dividing.
func distribution(counts []float64) []float64 {
	total := floats.Sum(counts)
	if total <= 0 {
		return nil
	}
	p := make([]float64, len(counts))
	for i, v := range counts {
		p[i] = v / total
	}
	return p
}
