package embedding

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// resample interpolates x onto num points in the Fourier domain, producing
// the same output as scipy.signal.resample does for real input: the spectrum
// is truncated or zero padded to the target bandwidth and inverted at the new
// length. The result is periodic-window interpolation, so series whose
// content is band limited survive round trips exactly.
func resample(x []float64, num int) []float64 {
	n := len(x)
	if n == 0 || num <= 0 {
		return nil
	}
	if num == n {
		out := make([]float64, n)
		copy(out, x)
		return out
	}

	fft := fourier.NewFFT(n)
	spectrum := fft.Coefficients(nil, x)

	shaped := make([]complex128, num/2+1)
	keep := min(n, num)/2 + 1
	copy(shaped, spectrum[:keep])

	// An even-length boundary bin holds both frequency halves folded
	// together. Double it when truncation makes it the new Nyquist bin,
	// halve it when padding promotes it to an interior bin.
	if m := min(n, num); m%2 == 0 {
		if num < n {
			shaped[m/2] *= 2
		} else {
			shaped[m/2] *= 0.5
		}
	}

	inv := fourier.NewFFT(num)
	y := inv.Sequence(nil, shaped)

	// Sequence is unnormalized; fold the inverse transform's 1/num and the
	// length-change gain num/n into one pass.
	scale := 1 / float64(n)
	for i := range y {
		y[i] *= scale
	}
	return y
}
