package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tsrecall/tsrecall/internal/timeseries"
)

func TestNew_Defaults(t *testing.T) {
	e, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.TargetLength() != DefaultTargetLength {
		t.Errorf("expected target length %d, got %d", DefaultTargetLength, e.TargetLength())
	}
}

func TestNew_RejectsNegativeTargetLength(t *testing.T) {
	if _, err := New(Config{TargetLength: -1}); err == nil {
		t.Error("expected error for negative target length")
	}
}

func TestEmbedder_Dim(t *testing.T) {
	if got := Default().Dim(1); got != 260 {
		t.Errorf("expected default single-channel dim 260, got %d", got)
	}
	if got := Default().Dim(3); got != 780 {
		t.Errorf("expected default three-channel dim 780, got %d", got)
	}
	e, _ := New(Config{TargetLength: 8})
	if got := e.Dim(1); got != 12 {
		t.Errorf("expected dim 12 for target length 8, got %d", got)
	}
}

func TestEmbedder_EmptySeries(t *testing.T) {
	_, err := Default().Embed(context.Background(), timeseries.Series{})
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}

func TestEmbedder_OutputLength(t *testing.T) {
	e, _ := New(Config{TargetLength: 16})
	ctx := context.Background()

	for _, n := range []int{1, 3, 16, 100} {
		vec, err := e.Embed(ctx, timeseries.Sine(n, 1))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(vec) != e.Dim(1) {
			t.Errorf("n=%d: expected length %d, got %d", n, e.Dim(1), len(vec))
		}
	}
}

func TestEmbedder_ConstantSeriesEmbedsToZero(t *testing.T) {
	// A constant channel standardizes to all zeros, and every statistic of
	// an all-zero channel is zero.
	e, _ := New(Config{TargetLength: 4})
	vec, err := e.Embed(context.Background(), timeseries.FromValues([]float64{5, 5, 5, 5, 5, 5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Errorf("index %d: expected 0, got %g", i, v)
		}
	}
}

func TestEmbedder_StatisticsSection(t *testing.T) {
	// For [1,2,3] the standardized values are -sqrt(1.5), 0, sqrt(1.5), so
	// the trailing statistics are mean 0, std 1, and the symmetric extrema.
	e, _ := New(Config{TargetLength: 4})
	vec, err := e.Embed(context.Background(), timeseries.FromValues([]float64{1, 2, 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := vec[4:]
	root := math.Sqrt(1.5)
	want := []float64{0, 1, root, -root}
	for i := range want {
		if math.Abs(stats[i]-want[i]) > 1e-9 {
			t.Errorf("statistic %d: expected %g, got %g", i, want[i], stats[i])
		}
	}
}

func TestEmbedder_AmplitudeAndOffsetInvariant(t *testing.T) {
	e, _ := New(Config{TargetLength: 32})
	ctx := context.Background()

	base := timeseries.Sine(100, 2)
	shifted := timeseries.FromValues(affine(base.Values(), 40, -7))

	a, err := e.Embed(ctx, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Embed(ctx, shifted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			t.Fatalf("index %d: %g vs %g, embeddings should match after affine rescale", i, a[i], b[i])
		}
	}
}

func TestEmbedder_MultiChannelLayout(t *testing.T) {
	// Channel 1 is an affine image of channel 0, so both standardize to the
	// same values. Sample-major flattening then interleaves equal pairs, and
	// the per-statistic groups hold equal values side by side.
	e, _ := New(Config{TargetLength: 8})
	rows := make([][]float64, 20)
	for i := range rows {
		v := math.Sin(2 * math.Pi * float64(i) / 20)
		rows[i] = []float64{v, 3*v + 5}
	}
	s, err := timeseries.FromRows(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec, err := e.Embed(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != e.Dim(2) {
		t.Fatalf("expected length %d, got %d", e.Dim(2), len(vec))
	}
	for i := 0; i < 8; i++ {
		if math.Abs(vec[2*i]-vec[2*i+1]) > 1e-9 {
			t.Errorf("resampled pair %d differs: %g vs %g", i, vec[2*i], vec[2*i+1])
		}
	}
	stats := vec[16:]
	for g := 0; g < 4; g++ {
		if math.Abs(stats[2*g]-stats[2*g+1]) > 1e-9 {
			t.Errorf("statistic group %d differs across channels: %g vs %g", g, stats[2*g], stats[2*g+1])
		}
	}
}

func TestEmbedder_Deterministic(t *testing.T) {
	e := Default()
	ctx := context.Background()
	s := timeseries.WithNoise(timeseries.Sine(100, 2), 0.3, 11)

	a, _ := e.Embed(ctx, s)
	b, _ := e.Embed(ctx, s)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d differs between identical calls", i)
		}
	}
}

func TestEmbedder_NoStateAcrossCalls(t *testing.T) {
	// Embedding a large-magnitude series first must not influence the next
	// embedding: standardization is per call, never fitted.
	e := Default()
	ctx := context.Background()

	small := timeseries.Sine(50, 1)
	fresh, _ := Default().Embed(ctx, small)

	_, _ = e.Embed(ctx, timeseries.FromValues(affine(timeseries.Sine(50, 1).Values(), 1e6, 1e9)))
	after, _ := e.Embed(ctx, small)

	for i := range fresh {
		if fresh[i] != after[i] {
			t.Fatalf("index %d: %g vs %g, prior calls leaked into embedding", i, fresh[i], after[i])
		}
	}
}

func TestEmbedder_DoesNotMutateInput(t *testing.T) {
	s := timeseries.Sine(40, 1.5)
	before := s.Values()
	_, err := Default().Embed(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := s.Values()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestEmbedder_SimilarShapesAreCloser(t *testing.T) {
	e := Default()
	ctx := context.Background()

	sine, _ := e.Embed(ctx, timeseries.Sine(100, 2))
	noisy, _ := e.Embed(ctx, timeseries.WithNoise(timeseries.Sine(100, 2), 0.1, 42))
	square, _ := e.Embed(ctx, timeseries.Square(100, 2))

	if sqDist(sine, noisy) >= sqDist(sine, square) {
		t.Errorf("noisy sine (%g) should be closer to sine than square (%g)",
			sqDist(sine, noisy), sqDist(sine, square))
	}
}

func affine(x []float64, scale, offset float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = scale*v + offset
	}
	return out
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
