// Package embedding converts time series of any length into fixed-length
// vectors comparable by Euclidean distance.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tsrecall/tsrecall/internal/timeseries"
)

// DefaultTargetLength is the number of points every series is resampled to.
const DefaultTargetLength = 256

// statsPerChannel counts the summary statistics appended per channel:
// mean, standard deviation, max, min.
const statsPerChannel = 4

// ErrEmptySeries is returned when a series with no samples is embedded.
var ErrEmptySeries = errors.New("embedding: series has no samples")

// Config holds embedder parameters.
type Config struct {
	// TargetLength is the resampled length of every series.
	// Defaults to DefaultTargetLength.
	TargetLength int `json:"target_length" yaml:"target_length"`
}

// Embedder converts series into fixed-length vectors. Each call standardizes
// its input independently, so nothing carries over between series. Safe for
// concurrent use.
type Embedder struct {
	targetLength int
}

// New creates an Embedder, applying defaults for zero config values.
func New(cfg Config) (*Embedder, error) {
	if cfg.TargetLength == 0 {
		cfg.TargetLength = DefaultTargetLength
	}
	if cfg.TargetLength < 1 {
		return nil, fmt.Errorf("embedding: target length must be >= 1, got %d", cfg.TargetLength)
	}
	return &Embedder{targetLength: cfg.TargetLength}, nil
}

// Default creates an Embedder with default configuration.
func Default() *Embedder {
	return &Embedder{targetLength: DefaultTargetLength}
}

// TargetLength returns the configured resample length.
func (e *Embedder) TargetLength() int {
	return e.targetLength
}

// Dim returns the embedding length for a series with the given channel count.
func (e *Embedder) Dim(channels int) int {
	return (e.targetLength + statsPerChannel) * channels
}

// Embed converts s into a vector of length Dim(s.Channels()).
//
// Each channel is standardized to zero mean and unit variance, then resampled
// to TargetLength points in the Fourier domain. The output is the resampled
// values flattened sample-major, followed by each channel's mean, standard
// deviation, max, and min, grouped by statistic. The statistics are computed
// on the standardized values, so amplitude and offset never influence the
// distance between two embeddings, only shape does.
func (e *Embedder) Embed(_ context.Context, s timeseries.Series) ([]float64, error) {
	if s.IsEmpty() {
		return nil, ErrEmptySeries
	}

	channels := s.Channels()
	resampled := make([][]float64, channels)
	means := make([]float64, channels)
	stds := make([]float64, channels)
	maxs := make([]float64, channels)
	mins := make([]float64, channels)

	for j := 0; j < channels; j++ {
		ch := standardize(s.Channel(j))
		resampled[j] = resample(ch, e.targetLength)
		means[j], stds[j] = stat.PopMeanStdDev(ch, nil)
		maxs[j] = floats.Max(ch)
		mins[j] = floats.Min(ch)
	}

	out := make([]float64, 0, e.Dim(channels))
	for i := 0; i < e.targetLength; i++ {
		for j := 0; j < channels; j++ {
			out = append(out, resampled[j][i])
		}
	}
	out = append(out, means...)
	out = append(out, stds...)
	out = append(out, maxs...)
	out = append(out, mins...)
	return out, nil
}

// standardize returns x shifted to zero mean and scaled to unit population
// variance. A constant channel is only shifted, yielding all zeros.
func standardize(x []float64) []float64 {
	mean, std := stat.PopMeanStdDev(x, nil)
	if std == 0 {
		std = 1
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - mean) / std
	}
	return out
}
