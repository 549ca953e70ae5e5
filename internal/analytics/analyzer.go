// Package analytics provides heuristic diagnostics for single-channel time
// series: rolling z-score anomaly detection, autocorrelation seasonality
// estimation, statistical feature summaries, and recurring pattern
// extraction. These are exploratory helpers, not rigorous statistics.
package analytics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Defaults assume hourly data: a day-long anomaly window, a week-long
// maximum seasonality period.
const (
	DefaultAnomalyWindow    = 24
	DefaultAnomalyThreshold = 3.0
	DefaultMaxPeriod        = 168
	DefaultPatternWindow    = 24
	DefaultPatternCount     = 5
)

// ErrNoData is returned when an analyzer is built from an empty series.
var ErrNoData = errors.New("analytics: no data")

// Anomaly is a sample whose standardized value strays from its trailing
// rolling mean by more than a threshold. Value holds the original sample.
type Anomaly struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Seasonality describes the strongest periodic component found. Strength is
// the autocorrelation at the detected period relative to lag zero, in
// [-1, 1]. A zero period means no period was found.
type Seasonality struct {
	Period   int     `json:"period"`
	Strength float64 `json:"strength"`
}

// Features summarizes a series. Mean, Std, Skewness, Kurtosis, and Trend are
// computed on the raw values; Entropy is the Shannon entropy in bits of a
// binned value histogram.
type Features struct {
	Mean                float64 `json:"mean"`
	Std                 float64 `json:"std"`
	Skewness            float64 `json:"skewness"`
	Kurtosis            float64 `json:"kurtosis"`
	Trend               float64 `json:"trend"`
	SeasonalityStrength float64 `json:"seasonality_strength"`
	Entropy             float64 `json:"entropy"`
}

// Options configures Analyze. Zero values select the defaults above.
type Options struct {
	AnomalyWindow    int     `json:"anomaly_window,omitempty"`
	AnomalyThreshold float64 `json:"anomaly_threshold,omitempty"`
	MaxPeriod        int     `json:"max_period,omitempty"`
	PatternWindow    int     `json:"pattern_window,omitempty"`
	PatternCount     int     `json:"pattern_count,omitempty"`
}

// Report aggregates every diagnostic for one series.
type Report struct {
	Anomalies   []Anomaly   `json:"anomalies"`
	Seasonality Seasonality `json:"seasonality"`
	Features    Features    `json:"features"`
	Patterns    []Pattern   `json:"patterns"`
}

// Analyzer computes diagnostics over one series. The standardized form is
// computed once at construction and shared by the detection methods.
type Analyzer struct {
	data []float64
	norm []float64
}

// NewAnalyzer creates an Analyzer over a copy of data.
func NewAnalyzer(data []float64) (*Analyzer, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	return &Analyzer{data: cp, norm: standardize(cp)}, nil
}

// Analyze runs every diagnostic over data and returns the combined report.
func Analyze(data []float64, opts Options) (*Report, error) {
	a, err := NewAnalyzer(data)
	if err != nil {
		return nil, err
	}
	anomalies := a.DetectAnomalies(opts.AnomalyWindow, opts.AnomalyThreshold)
	if anomalies == nil {
		anomalies = []Anomaly{}
	}
	patterns := a.ExtractPatterns(opts.PatternWindow, opts.PatternCount)
	if patterns == nil {
		patterns = []Pattern{}
	}
	return &Report{
		Anomalies:   anomalies,
		Seasonality: a.DetectSeasonality(opts.MaxPeriod),
		Features:    a.features(opts.MaxPeriod),
		Patterns:    patterns,
	}, nil
}

// DetectAnomalies flags samples whose standardized value deviates from the
// trailing rolling mean by more than threshold. Zero arguments select
// DefaultAnomalyWindow and DefaultAnomalyThreshold. Series shorter than the
// window produce no anomalies.
func (a *Analyzer) DetectAnomalies(windowSize int, threshold float64) []Anomaly {
	if windowSize <= 0 {
		windowSize = DefaultAnomalyWindow
	}
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}
	n := len(a.norm)
	if n < windowSize {
		return nil
	}

	// Trailing mean of the window ending at each sample. The first
	// windowSize-1 samples reuse the first full window's mean.
	means := make([]float64, n)
	var sum float64
	for i := 0; i < windowSize; i++ {
		sum += a.norm[i]
	}
	first := sum / float64(windowSize)
	for i := 0; i < windowSize; i++ {
		means[i] = first
	}
	for i := windowSize; i < n; i++ {
		sum += a.norm[i] - a.norm[i-windowSize]
		means[i] = sum / float64(windowSize)
	}

	var anomalies []Anomaly
	for i := 0; i < n; i++ {
		if math.Abs(a.norm[i]-means[i]) > threshold {
			anomalies = append(anomalies, Anomaly{Index: i, Value: a.data[i]})
		}
	}
	return anomalies
}

// DetectSeasonality finds the lag below maxPeriod with the strongest
// autocorrelation peak. Zero maxPeriod selects DefaultMaxPeriod. Returns the
// zero Seasonality when no peak exists, including for constant series.
func (a *Analyzer) DetectSeasonality(maxPeriod int) Seasonality {
	if maxPeriod <= 0 {
		maxPeriod = DefaultMaxPeriod
	}
	n := len(a.norm)
	lags := maxPeriod
	if lags > n {
		lags = n
	}

	acf := make([]float64, lags)
	for lag := 0; lag < lags; lag++ {
		var sum float64
		for i := 0; i+lag < n; i++ {
			sum += a.norm[i] * a.norm[i+lag]
		}
		acf[lag] = sum
	}
	if acf[0] == 0 {
		return Seasonality{}
	}

	best := -1
	for lag := 1; lag < lags-1; lag++ {
		if acf[lag] <= acf[lag-1] || acf[lag] <= acf[lag+1] {
			continue
		}
		if best == -1 || acf[lag] > acf[best] {
			best = lag
		}
	}
	if best == -1 {
		return Seasonality{}
	}
	return Seasonality{Period: best, Strength: acf[best] / acf[0]}
}

// Features computes the statistical summary of the series.
func (a *Analyzer) Features() Features {
	return a.features(0)
}

func (a *Analyzer) features(maxPeriod int) Features {
	var slope float64
	if len(a.data) >= 2 {
		xs := make([]float64, len(a.data))
		for i := range xs {
			xs[i] = float64(i)
		}
		_, slope = stat.LinearRegression(xs, a.data, nil, false)
	}
	mean, std := stat.PopMeanStdDev(a.data, nil)

	f := Features{
		Mean:                mean,
		Std:                 std,
		Trend:               slope,
		SeasonalityStrength: a.DetectSeasonality(maxPeriod).Strength,
		Entropy:             binnedEntropy(a.data),
	}
	// The bias-corrected moments divide by the deviation and by n-2 and
	// n-3, so constant and tiny series keep the zero value.
	if std > 0 {
		if len(a.data) >= 3 {
			f.Skewness = stat.Skew(a.data, nil)
		}
		if len(a.data) >= 4 {
			f.Kurtosis = stat.ExKurtosis(a.data, nil)
		}
	}
	return f
}

// binnedEntropy returns the Shannon entropy in bits of the value histogram,
// with the bin count chosen by Sturges' rule.
func binnedEntropy(x []float64) float64 {
	lo, hi := floats.Min(x), floats.Max(x)
	if lo == hi {
		return 0
	}
	bins := int(math.Ceil(math.Log2(float64(len(x))))) + 1
	if bins < 1 {
		bins = 1
	}

	counts := make([]float64, bins)
	width := (hi - lo) / float64(bins)
	for _, v := range x {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}

	n := float64(len(x))
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := c / n
		h -= p * math.Log2(p)
	}
	return h
}

// standardize returns x shifted to zero mean and scaled to unit population
// variance. A constant series is only shifted, yielding all zeros.
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
