package vectorindex

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestNewFlat_RejectsBadDimension(t *testing.T) {
	for _, dim := range []int{0, -1} {
		if _, err := NewFlat(dim); err == nil {
			t.Errorf("expected error for dimension %d", dim)
		}
	}
}

func TestFlat_AddAndSearch(t *testing.T) {
	idx, _ := NewFlat(3)
	ctx := context.Background()

	_ = idx.Add(ctx, []float64{1, 0, 0})
	_ = idx.Add(ctx, []float64{0, 1, 0})
	_ = idx.Add(ctx, []float64{0, 0, 1})

	results, err := idx.Search(ctx, []float64{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// Position 0 is an exact match at distance 0.
	if results[0].Position != 0 {
		t.Errorf("expected position 0 first, got %d", results[0].Position)
	}
	if results[0].Distance != 0 {
		t.Errorf("expected distance 0 for exact match, got %f", results[0].Distance)
	}
	// The orthogonal unit vectors sit at squared distance 2.
	if math.Abs(results[1].Distance-2) > 1e-12 {
		t.Errorf("expected squared distance 2, got %f", results[1].Distance)
	}
}

func TestFlat_DistanceIsSquared(t *testing.T) {
	idx, _ := NewFlat(2)
	ctx := context.Background()

	_ = idx.Add(ctx, []float64{3, 4})

	results, _ := idx.Search(ctx, []float64{0, 0}, 1)
	if results[0].Distance != 25 {
		t.Errorf("expected squared distance 25, got %f", results[0].Distance)
	}
}

func TestFlat_AddDimensionMismatch(t *testing.T) {
	idx, _ := NewFlat(3)
	err := idx.Add(context.Background(), []float64{1, 2})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("failed add should not grow the index, got Len()=%d", idx.Len())
	}
}

func TestFlat_SearchDimensionMismatch(t *testing.T) {
	idx, _ := NewFlat(3)
	_ = idx.Add(context.Background(), []float64{1, 2, 3})

	_, err := idx.Search(context.Background(), []float64{1, 2}, 1)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestFlat_SearchEmpty(t *testing.T) {
	idx, _ := NewFlat(2)
	results, err := idx.Search(context.Background(), []float64{1, 0}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestFlat_SearchEmptyMismatchedQuery(t *testing.T) {
	// Dimension validation applies even when the index holds nothing.
	idx, _ := NewFlat(2)
	_, err := idx.Search(context.Background(), []float64{1, 0, 0}, 5)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestFlat_KExceedsLen(t *testing.T) {
	idx, _ := NewFlat(2)
	ctx := context.Background()

	_ = idx.Add(ctx, []float64{1, 0})
	_ = idx.Add(ctx, []float64{0, 1})

	results, _ := idx.Search(ctx, []float64{1, 0}, 10)
	if len(results) != 2 {
		t.Errorf("expected 2 results when k > len, got %d", len(results))
	}
}

func TestFlat_KZeroOrNegative(t *testing.T) {
	idx, _ := NewFlat(2)
	ctx := context.Background()
	_ = idx.Add(ctx, []float64{1, 0})

	for _, k := range []int{0, -3} {
		results, err := idx.Search(ctx, []float64{1, 0}, k)
		if err != nil {
			t.Fatalf("k=%d: unexpected error: %v", k, err)
		}
		if len(results) != 0 {
			t.Errorf("k=%d: expected empty results, got %d", k, len(results))
		}
	}
}

func TestFlat_TiesBreakByPosition(t *testing.T) {
	idx, _ := NewFlat(2)
	ctx := context.Background()

	// Three identical vectors tie exactly; insertion order must win.
	for i := 0; i < 3; i++ {
		_ = idx.Add(ctx, []float64{1, 1})
	}

	results, _ := idx.Search(ctx, []float64{0, 0}, 3)
	for i, r := range results {
		if r.Position != i {
			t.Errorf("result %d: expected position %d, got %d", i, i, r.Position)
		}
	}
}

func TestFlat_PositionsFollowInsertionOrder(t *testing.T) {
	idx, _ := NewFlat(1)
	ctx := context.Background()

	for _, v := range []float64{10, 20, 30} {
		_ = idx.Add(ctx, []float64{v})
	}

	results, _ := idx.Search(ctx, []float64{29}, 3)
	wantPositions := []int{2, 1, 0}
	for i, r := range results {
		if r.Position != wantPositions[i] {
			t.Errorf("result %d: expected position %d, got %d", i, wantPositions[i], r.Position)
		}
	}
}

func TestFlat_AddCopiesVector(t *testing.T) {
	idx, _ := NewFlat(2)
	ctx := context.Background()

	vec := []float64{1, 0}
	_ = idx.Add(ctx, vec)
	vec[0] = 99

	results, _ := idx.Search(ctx, []float64{1, 0}, 1)
	if results[0].Distance != 0 {
		t.Errorf("index shares caller's slice: distance %f", results[0].Distance)
	}
}

func TestFlat_LenAndDim(t *testing.T) {
	idx, _ := NewFlat(4)
	if idx.Dim() != 4 {
		t.Errorf("expected Dim()=4, got %d", idx.Dim())
	}
	if idx.Len() != 0 {
		t.Errorf("expected Len()=0, got %d", idx.Len())
	}
	_ = idx.Add(context.Background(), []float64{1, 2, 3, 4})
	if idx.Len() != 1 {
		t.Errorf("expected Len()=1, got %d", idx.Len())
	}
}
