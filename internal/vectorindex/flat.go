package vectorindex

import (
	"context"
	"fmt"
	"sort"
)

// Flat performs exhaustive nearest neighbor search using squared Euclidean
// distance. Append only. Not safe for concurrent use: callers that share a
// Flat across goroutines must serialize writes against reads.
type Flat struct {
	dim     int
	vectors [][]float64
}

// NewFlat creates an empty Flat index for vectors of the given dimension.
func NewFlat(dim int) (*Flat, error) {
	if dim < 1 {
		return nil, fmt.Errorf("vectorindex: dimension must be >= 1, got %d", dim)
	}
	return &Flat{dim: dim}, nil
}

// Add appends a copy of vector at the next position.
func (f *Flat) Add(_ context.Context, vector []float64) error {
	if len(vector) != f.dim {
		return fmt.Errorf("adding vector: got dimension %d, index expects %d: %w", len(vector), f.dim, ErrDimensionMismatch)
	}
	cp := make([]float64, len(vector))
	copy(cp, vector)
	f.vectors = append(f.vectors, cp)
	return nil
}

// Search scans every vector and returns the k nearest to query, sorted by
// ascending distance with ties broken by ascending position.
func (f *Flat) Search(_ context.Context, query []float64, k int) ([]Neighbor, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("searching: got query dimension %d, index expects %d: %w", len(query), f.dim, ErrDimensionMismatch)
	}
	if k <= 0 || len(f.vectors) == 0 {
		return nil, nil
	}

	results := make([]Neighbor, len(f.vectors))
	for pos, vec := range f.vectors {
		results[pos] = Neighbor{
			Position: pos,
			Distance: sqDistance(query, vec),
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Position < results[j].Position
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Len returns the number of vectors in the index.
func (f *Flat) Len() int {
	return len(f.vectors)
}

// Dim returns the vector dimension the index accepts.
func (f *Flat) Dim() int {
	return f.dim
}

// sqDistance returns the squared Euclidean distance between equal-length
// vectors.
func sqDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
