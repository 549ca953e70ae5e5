// Package service wires the embedder, the document store, and the analytics
// helpers into one synchronized facade shared by the HTTP and MCP surfaces.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tsrecall/tsrecall/internal/analytics"
	"github.com/tsrecall/tsrecall/internal/embedding"
	"github.com/tsrecall/tsrecall/internal/store"
	"github.com/tsrecall/tsrecall/internal/timeseries"
)

// DefaultSearchK is the number of matches returned when a caller does not ask
// for a specific count.
const DefaultSearchK = 5

// Service owns the embed-then-store flow. The underlying store is not
// concurrency safe, so Service serializes writes against reads with one
// RWMutex; embedding runs outside the lock.
type Service struct {
	mu       sync.RWMutex
	embedder *embedding.Embedder
	store    *store.Store
	logger   *zap.Logger
}

// New creates a Service. A nil logger disables logging.
func New(embedder *embedding.Embedder, st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{embedder: embedder, store: st, logger: logger}
}

// Dim returns the embedding dimension the underlying store accepts.
func (s *Service) Dim() int {
	return s.store.Dim()
}

// Count returns the number of stored documents.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}

// Ingest embeds series and stores it under id, generating a fresh UUID when
// id is empty. Returns the stored document's id.
func (s *Service) Ingest(ctx context.Context, id string, series timeseries.Series, metadata map[string]any) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	vec, err := s.embedder.Embed(ctx, series)
	if err != nil {
		return "", fmt.Errorf("ingesting %q: %w", id, err)
	}

	doc := store.Document{
		ID:        id,
		Series:    series,
		Metadata:  metadata,
		Embedding: vec,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.AddDocument(ctx, doc); err != nil {
		return "", err
	}

	s.logger.Info("document ingested",
		zap.String("id", id),
		zap.Int("samples", series.Len()),
		zap.Int("channels", series.Channels()),
	)
	return id, nil
}

// Search embeds the query series and returns the k nearest stored documents.
func (s *Service) Search(ctx context.Context, series timeseries.Series, k int) ([]store.Match, error) {
	vec, err := s.embedder.Embed(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return s.SearchEmbedding(ctx, vec, k)
}

// SearchEmbedding returns the k stored documents nearest to a raw embedding
// vector.
func (s *Service) SearchEmbedding(ctx context.Context, vec []float64, k int) ([]store.Match, error) {
	s.mu.RLock()
	matches, err := s.store.Search(ctx, vec, k)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search completed",
		zap.Int("k", k),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}

// Get returns the stored document with the given id.
func (s *Service) Get(ctx context.Context, id string) (*store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.GetByID(ctx, id)
}

// Analyze runs the analytics suite over a single-channel value slice.
func (s *Service) Analyze(_ context.Context, values []float64, opts analytics.Options) (*analytics.Report, error) {
	report, err := analytics.Analyze(values, opts)
	if err != nil {
		return nil, fmt.Errorf("analyzing series: %w", err)
	}
	return report, nil
}
