// Package store maintains an in-memory document collection paired with a
// vector index for nearest neighbor search.
package store

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/tsrecall/tsrecall/internal/timeseries"
	"github.com/tsrecall/tsrecall/internal/vectorindex"
)

var (
	// ErrMissingEmbedding is returned when a document without an embedding
	// is added.
	ErrMissingEmbedding = errors.New("store: document has no embedding")

	// ErrNotFound is returned when no document carries the requested ID.
	ErrNotFound = errors.New("store: document not found")
)

// Document is a stored time series with its embedding and caller metadata.
type Document struct {
	ID        string            `json:"id"`
	Series    timeseries.Series `json:"data"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
	Embedding []float64         `json:"embedding,omitempty"`
}

// Match is one search result: a stored document and its distance to the
// query. Distance is squared Euclidean, lower means more similar.
type Match struct {
	ID       string            `json:"id"`
	Distance float64           `json:"distance"`
	Series   timeseries.Series `json:"data"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

// Store holds documents in insertion order alongside a vector index. The i-th
// document added corresponds to the vector at index position i, and the two
// collections only ever grow together.
//
// Store itself is not safe for concurrent use. Callers that share one across
// goroutines wrap it the way service.Service does.
type Store struct {
	dim       int
	index     vectorindex.Index
	documents []Document
}

// New creates a Store backed by a flat exhaustive index for embeddings of the
// given dimension.
func New(dim int) (*Store, error) {
	idx, err := vectorindex.NewFlat(dim)
	if err != nil {
		return nil, err
	}
	return NewWithIndex(idx), nil
}

// NewWithIndex creates a Store backed by the given index, which must be empty
// and non-nil. The store adopts the index's dimension.
func NewWithIndex(idx vectorindex.Index) *Store {
	return &Store{dim: idx.Dim(), index: idx}
}

// Dim returns the embedding dimension the store accepts.
func (s *Store) Dim() int {
	return s.dim
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	return len(s.documents)
}

// AddDocument validates and stores a copy of doc. The document's embedding
// must be present and match the store's dimension; validation happens before
// any mutation, so a failed add leaves the store untouched. Duplicate IDs are
// allowed.
func (s *Store) AddDocument(ctx context.Context, doc Document) error {
	if len(doc.Embedding) == 0 {
		return fmt.Errorf("adding document %q: %w", doc.ID, ErrMissingEmbedding)
	}
	if len(doc.Embedding) != s.dim {
		return fmt.Errorf("adding document %q: embedding has dimension %d, store expects %d: %w",
			doc.ID, len(doc.Embedding), s.dim, vectorindex.ErrDimensionMismatch)
	}

	stored := Document{
		ID:        doc.ID,
		Series:    doc.Series.Clone(),
		Metadata:  maps.Clone(doc.Metadata),
		Embedding: append([]float64(nil), doc.Embedding...),
	}
	if err := s.index.Add(ctx, stored.Embedding); err != nil {
		return fmt.Errorf("adding document %q to index: %w", doc.ID, err)
	}
	s.documents = append(s.documents, stored)
	return nil
}

// Search returns the min(k, Len()) stored documents nearest to the query
// embedding, sorted by ascending distance with ties broken by insertion
// order. An empty store yields an empty result, not an error.
func (s *Store) Search(ctx context.Context, query []float64, k int) ([]Match, error) {
	if len(query) != s.dim {
		return nil, fmt.Errorf("searching: query has dimension %d, store expects %d: %w",
			len(query), s.dim, vectorindex.ErrDimensionMismatch)
	}

	neighbors, err := s.index.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	matches := make([]Match, 0, len(neighbors))
	for _, nb := range neighbors {
		if nb.Position < 0 || nb.Position >= len(s.documents) {
			return nil, fmt.Errorf("searching: index returned position %d outside [0,%d)", nb.Position, len(s.documents))
		}
		doc := s.documents[nb.Position]
		matches = append(matches, Match{
			ID:       doc.ID,
			Distance: nb.Distance,
			Series:   doc.Series.Clone(),
			Metadata: maps.Clone(doc.Metadata),
		})
	}
	return matches, nil
}

// GetByID returns a copy of the first document added with the given ID, or
// ErrNotFound.
func (s *Store) GetByID(_ context.Context, id string) (*Document, error) {
	for _, doc := range s.documents {
		if doc.ID == id {
			cp := Document{
				ID:        doc.ID,
				Series:    doc.Series.Clone(),
				Metadata:  maps.Clone(doc.Metadata),
				Embedding: append([]float64(nil), doc.Embedding...),
			}
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("getting document %q: %w", id, ErrNotFound)
}
