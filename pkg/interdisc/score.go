package interdisc

// Integrator computes the integrator score: the divergence between a
// paper set's outgoing citation profile and the outgoing profiles of the
// venues it cites, weighted by citation share.
//
// counts is the raw per-venue outgoing citation count vector, indexed by
// the matrix's venue order. A zero-total vector scores 0. Panics if the
// vector length does not equal the matrix order.
func Integrator(counts []float64, m *Matrix) float64 {
	return weightedDivergence(counts, m, m.RowProfile)
}

// Broadcast computes the broadcast score, the symmetric measure over
// incoming citations and the column-normalized venue profiles.
func Broadcast(counts []float64, m *Matrix) float64 {
	return weightedDivergence(counts, m, m.ColProfile)
}

func weightedDivergence(counts []float64, m *Matrix, profile func(int, []float64) []float64) float64 {
	if len(counts) != m.N() {
		panic("interdisc: count vector length does not match matrix order")
	}

	p := distribution(counts)
	if p == nil {
		return 0
	}

	scratch := make([]float64, m.N())
	var score float64
	for j, w := range p {
		if w <= 0 {
			continue
		}
		score += JensenShannon(p, profile(j, scratch)) * w
	}
	return score
}
