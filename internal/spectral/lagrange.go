package spectral

// Weights evaluates all Lagrange cardinal polynomials over the given
// collocation points at x. Weights(p, p[i]) is the i-th unit vector, which
// is what makes interpolation at a collocation point exact.
func Weights(points []float64, x float64) []float64 {
	w := make([]float64, len(points))
	for i, xi := range points {
		l := 1.0
		for k, xk := range points {
			if k == i {
				continue
			}
			l *= (x - xk) / (xi - xk)
		}
		w[i] = l
	}
	return w
}

// Interpolate evaluates the 2D tensor-product interpolant of one component
// at (ξ,η) for every time sample.
func Interpolate(colXi, colEta []float64, b *Block, comp int, xi, eta float64) []float64 {
	wxi := Weights(colXi, xi)
	weta := Weights(colEta, eta)
	out := make([]float64, b.NT)
	for t := 0; t < b.NT; t++ {
		acc := 0.0
		for i := 0; i < b.NR; i++ {
			if wxi[i] == 0 {
				continue
			}
			row := 0.0
			for j := 0; j < b.NC; j++ {
				row += weta[j] * b.At(t, i, j, comp)
			}
			acc += wxi[i] * row
		}
		out[t] = acc
	}
	return out
}
