package analytics

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestAnalyzer_ExtractPatterns_RepeatingWave(t *testing.T) {
	// A wave whose period equals the window makes every 24th window a near
	// exact copy, so each phase forms its own dense cluster.
	data := make([]float64, 192)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * float64(i) / 24)
	}

	a, _ := NewAnalyzer(data)
	patterns := a.ExtractPatterns(24, 5)

	if len(patterns) != 5 {
		t.Fatalf("expected 5 patterns, got %d", len(patterns))
	}
	for i, p := range patterns {
		if len(p.Values) != 24 {
			t.Fatalf("pattern %d: expected 24 values, got %d", i, len(p.Values))
		}
		if p.Frequency <= 0.03 || p.Frequency >= 0.06 {
			t.Errorf("pattern %d: expected frequency near 1/24, got %f", i, p.Frequency)
		}
	}

	// The first cluster is the phase-zero class, whose members are copies
	// of the first standardized window.
	want := standardize(data)[:24]
	for j, v := range patterns[0].Values {
		if math.Abs(v-want[j]) > 1e-6 {
			t.Errorf("pattern 0 value %d: expected %g, got %g", j, want[j], v)
		}
	}
}

func TestAnalyzer_ExtractPatterns_ShorterThanWindow(t *testing.T) {
	a, _ := NewAnalyzer([]float64{1, 2, 3})
	if patterns := a.ExtractPatterns(24, 5); patterns != nil {
		t.Errorf("expected nil for series shorter than the window, got %v", patterns)
	}
}

func TestAnalyzer_ExtractPatterns_NoiseHasNoClusters(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 0))
	data := make([]float64, 150)
	for i := range data {
		data[i] = rng.NormFloat64()
	}

	a, _ := NewAnalyzer(data)
	if patterns := a.ExtractPatterns(24, 5); len(patterns) != 0 {
		t.Errorf("expected no patterns in white noise, got %d", len(patterns))
	}
}

func TestDBSCAN_BlobsAndOutlier(t *testing.T) {
	var points [][]float64
	// Dense blob at the origin.
	for _, d := range [][]float64{{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1}, {0.05, 0.05}, {-0.1, 0}} {
		points = append(points, d)
	}
	// Dense blob far away.
	for _, d := range [][]float64{{10, 10}, {10.1, 10}, {10, 10.1}, {9.9, 10}, {10, 9.9}} {
		points = append(points, d)
	}
	// A lone outlier.
	points = append(points, []float64{5, 5})

	labels := dbscan(points, 0.5, 5)

	for i := 0; i < 6; i++ {
		if labels[i] != 0 {
			t.Errorf("point %d: expected cluster 0, got %d", i, labels[i])
		}
	}
	for i := 6; i < 11; i++ {
		if labels[i] != 1 {
			t.Errorf("point %d: expected cluster 1, got %d", i, labels[i])
		}
	}
	if labels[11] != -1 {
		t.Errorf("outlier: expected noise label -1, got %d", labels[11])
	}
}

func TestDBSCAN_AllNoise(t *testing.T) {
	points := [][]float64{{0, 0}, {5, 5}, {10, 10}}
	for i, l := range dbscan(points, 0.5, 2) {
		if l != -1 {
			t.Errorf("point %d: expected noise, got %d", i, l)
		}
	}
}
