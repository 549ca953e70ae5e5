// Package vectorindex provides exact nearest neighbor search over embedding
// vectors of a fixed dimension.
package vectorindex

import (
	"context"
	"errors"
)

// ErrDimensionMismatch is returned when a vector's length does not match the
// dimension the index was created with.
var ErrDimensionMismatch = errors.New("vectorindex: dimension mismatch")

// Neighbor pairs an indexed vector's position with its distance to a query.
type Neighbor struct {
	Position int
	Distance float64 // squared Euclidean distance, lower = more similar
}

// Index provides nearest neighbor search over vectors of a fixed dimension.
// Vectors are identified by position: the i-th vector added lives at position
// i, and positions never change.
type Index interface {
	// Add appends a vector to the index.
	// Returns ErrDimensionMismatch if the vector has the wrong length.
	Add(ctx context.Context, vector []float64) error

	// Search returns the k nearest vectors to query, sorted by ascending
	// distance with ties broken by ascending position. Returns fewer than k
	// results if the index holds fewer vectors, and none for k <= 0.
	Search(ctx context.Context, query []float64, k int) ([]Neighbor, error)

	// Len returns the number of vectors currently in the index.
	Len() int

	// Dim returns the vector dimension the index accepts.
	Dim() int
}
