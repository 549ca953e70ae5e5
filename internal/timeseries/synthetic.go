package timeseries

import (
	"math"
	"math/rand/v2"
)

// Synthetic single-channel waveforms used by the demo command and tests.
// Each spans the given number of full cycles across n samples, endpoints
// included.

// Sine returns a sine wave with n samples.
func Sine(n int, cycles float64) Series {
	return generate(n, func(t float64) float64 {
		return math.Sin(2 * math.Pi * cycles * t)
	})
}

// Cosine returns a cosine wave with n samples.
func Cosine(n int, cycles float64) Series {
	return generate(n, func(t float64) float64 {
		return math.Cos(2 * math.Pi * cycles * t)
	})
}

// Square returns a square wave with n samples, the sign of the matching sine.
func Square(n int, cycles float64) Series {
	return generate(n, func(t float64) float64 {
		v := math.Sin(2 * math.Pi * cycles * t)
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		default:
			return 0
		}
	})
}

// Trend returns a sine wave riding on a linear ramp. slope is the total rise
// across the series.
func Trend(n int, slope, cycles float64) Series {
	return generate(n, func(t float64) float64 {
		return slope*t + math.Sin(2*math.Pi*cycles*t)
	})
}

// WithNoise returns a copy of s with Gaussian noise of the given standard
// deviation added to every value. The same seed produces the same noise.
func WithNoise(s Series, stddev float64, seed uint64) Series {
	rng := rand.New(rand.NewPCG(seed, 0))
	out := s.Clone()
	for i := range out.values {
		out.values[i] += rng.NormFloat64() * stddev
	}
	return out
}

// generate samples f over t in [0, 1], endpoints included.
func generate(n int, f func(t float64) float64) Series {
	if n <= 0 {
		return Series{channels: 1}
	}
	values := make([]float64, n)
	if n == 1 {
		values[0] = f(0)
		return Series{channels: 1, values: values}
	}
	for i := 0; i < n; i++ {
		values[i] = f(float64(i) / float64(n-1))
	}
	return Series{channels: 1, values: values}
}
