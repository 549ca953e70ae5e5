// Package timeseries defines the numeric series value type shared by the
// embedding, storage, and transport layers, plus CSV and JSON codecs and
// synthetic waveform generators.
package timeseries

import (
	"encoding/json"
	"fmt"
)

// Series is an immutable-by-convention numeric time series with one or more
// channels. Samples are stored sample-major: the value for sample i, channel j
// lives at values[i*channels+j]. The zero value is an empty single-channel
// series.
type Series struct {
	channels int
	values   []float64
}

// New creates a Series from sample-major values. The length of values must be
// a multiple of channels.
func New(channels int, values []float64) (Series, error) {
	if channels < 1 {
		return Series{}, fmt.Errorf("timeseries: channels must be >= 1, got %d", channels)
	}
	if len(values)%channels != 0 {
		return Series{}, fmt.Errorf("timeseries: %d values not divisible by %d channels", len(values), channels)
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	return Series{channels: channels, values: cp}, nil
}

// FromValues creates a single-channel Series from a flat slice.
func FromValues(values []float64) Series {
	cp := make([]float64, len(values))
	copy(cp, values)
	return Series{channels: 1, values: cp}
}

// FromRows creates a Series from per-sample rows. All rows must have the same
// number of channels. An empty row set yields an empty single-channel series.
func FromRows(rows [][]float64) (Series, error) {
	if len(rows) == 0 {
		return Series{channels: 1}, nil
	}
	channels := len(rows[0])
	if channels == 0 {
		return Series{}, fmt.Errorf("timeseries: row 0 has no channels")
	}
	values := make([]float64, 0, len(rows)*channels)
	for i, row := range rows {
		if len(row) != channels {
			return Series{}, fmt.Errorf("timeseries: row %d has %d channels, expected %d", i, len(row), channels)
		}
		values = append(values, row...)
	}
	return Series{channels: channels, values: values}, nil
}

// Channels returns the number of channels. The zero value reports one.
func (s Series) Channels() int {
	if s.channels == 0 {
		return 1
	}
	return s.channels
}

// Len returns the number of samples.
func (s Series) Len() int {
	if s.channels == 0 {
		return 0
	}
	return len(s.values) / s.channels
}

// IsEmpty reports whether the series has no samples.
func (s Series) IsEmpty() bool {
	return s.Len() == 0
}

// At returns the value for sample i, channel j.
func (s Series) At(i, j int) float64 {
	return s.values[i*s.Channels()+j]
}

// Values returns a copy of the sample-major values.
func (s Series) Values() []float64 {
	cp := make([]float64, len(s.values))
	copy(cp, s.values)
	return cp
}

// Channel returns a copy of channel j as a flat slice.
func (s Series) Channel(j int) []float64 {
	c := s.Channels()
	if j < 0 || j >= c {
		panic(fmt.Sprintf("timeseries: channel %d out of range [0,%d)", j, c))
	}
	n := s.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = s.values[i*c+j]
	}
	return out
}

// Rows returns the series as freshly allocated per-sample rows.
func (s Series) Rows() [][]float64 {
	c := s.Channels()
	n := s.Len()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, c)
		copy(row, s.values[i*c:(i+1)*c])
		rows[i] = row
	}
	return rows
}

// Clone returns a deep copy of the series.
func (s Series) Clone() Series {
	cp := make([]float64, len(s.values))
	copy(cp, s.values)
	return Series{channels: s.channels, values: cp}
}

// MarshalJSON encodes a single-channel series as a flat array and a
// multi-channel series as nested per-sample rows.
func (s Series) MarshalJSON() ([]byte, error) {
	if s.Channels() == 1 {
		vals := s.values
		if vals == nil {
			vals = []float64{}
		}
		return json.Marshal(vals)
	}
	return json.Marshal(s.Rows())
}

// UnmarshalJSON accepts either a flat array (single channel) or nested
// per-sample rows.
func (s *Series) UnmarshalJSON(data []byte) error {
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err == nil {
		parsed, perr := FromRows(rows)
		if perr != nil {
			return perr
		}
		*s = parsed
		return nil
	}
	var flat []float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("timeseries: series must be an array of numbers or an array of rows: %w", err)
	}
	*s = FromValues(flat)
	return nil
}
