package signal

import "math"

// DefaultLanczosWidth is the kernel half-width used when a caller does not
// request one.
const DefaultLanczosWidth = 5

// Resample interpolates a series from sampling interval dtOld to dtNew with
// a Lanczos (windowed sinc) kernel of half-width a. The output length is
// ⌊n·dtOld/dtNew⌋, anchored at the first input sample.
func Resample(data []float64, dtOld, dtNew float64, a int) []float64 {
	if a < 1 {
		a = DefaultLanczosWidth
	}
	n := len(data)
	nNew := int(float64(n) * dtOld / dtNew)
	out := make([]float64, nNew)
	for i := range out {
		// Position of the output sample in input-sample units.
		t := float64(i) * dtNew / dtOld
		lo := int(math.Ceil(t - float64(a)))
		hi := int(math.Floor(t + float64(a)))
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		acc := 0.0
		for m := lo; m <= hi; m++ {
			acc += data[m] * lanczos(t-float64(m), a)
		}
		out[i] = acc
	}
	return out
}

func lanczos(x float64, a int) float64 {
	ax := math.Abs(x)
	if ax >= float64(a) {
		return 0
	}
	return sinc(x) * sinc(x/float64(a))
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
