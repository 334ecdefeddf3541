// Package signal post-processes extracted raw time series: source time
// function exchange in the frequency domain and Lanczos resampling.
package signal

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// NextPow2 returns the smallest power of two ≥ n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Reconvolve exchanges the source time function of a trace: the database's
// intrinsic sliprate is deconvolved and the supplied one convolved in a
// single frequency-domain pass. timeShift (seconds) is applied as a linear
// phase term on the incoming sliprate; dt is the native sampling interval.
//
// nfft must be a power of two ≥ 2×len(data); the result is truncated back to
// len(data) samples. Stability requires the supplied sliprate to be
// band-limited relative to the database's.
func Reconvolve(data, dbSliprate, newSliprate []float64, nfft int, timeShift, dt float64) []float64 {
	fft := fourier.NewFFT(nfft)

	deconv := fft.Coefficients(nil, pad(dbSliprate, nfft))
	conv := fft.Coefficients(nil, pad(newSliprate, nfft))
	if timeShift != 0 {
		for i := range conv {
			// fft.Freq is in cycles per sample.
			conv[i] *= cmplx.Exp(complex(0, -2*math.Pi*fft.Freq(i)*timeShift/dt))
		}
	}

	spec := fft.Coefficients(nil, pad(data, nfft))
	for i := range spec {
		spec[i] *= conv[i] / deconv[i]
	}

	out := fft.Sequence(nil, spec)
	// The inverse transform is unnormalized.
	inv := 1 / float64(nfft)
	res := make([]float64, len(data))
	for i := range res {
		res[i] = out[i] * inv
	}
	return res
}

func pad(s []float64, n int) []float64 {
	if len(s) == n {
		return s
	}
	out := make([]float64, n)
	copy(out, s)
	return out
}
