// Package store implements document storage and similarity search over a
// relational backing store. Documents are normalized into a vectors table and
// a metadata table; searches order by a pluggable distance strategy and fold
// the denormalized join rows back into documents.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/emberkit/vecstore/ai"
	"github.com/emberkit/vecstore/ai/metrics"
)

// Spec is the per-instance store configuration. The vector dimension and
// distance strategy are fixed for the lifetime of a store.
type Spec struct {
	// VectorDimensions is the fixed length of every stored vector.
	VectorDimensions int

	// OverwriteExistingTables drops and recreates both tables on construction.
	OverwriteExistingTables bool

	// TextKey is the metadata key whose value becomes PageContent on search
	// results. Empty disables the projection.
	TextKey string

	// Strategy ranks vectors by closeness to the query vector.
	Strategy DistanceStrategy
}

// Store provides document storage and nearest-neighbor retrieval.
type Store struct {
	driver   Driver
	embedder ai.EmbeddingService
	spec     Spec
	exporter *metrics.Exporter
}

// Option configures optional store behavior.
type Option func(*Store)

// WithMetrics attaches a Prometheus exporter to the store.
func WithMetrics(exporter *metrics.Exporter) Option {
	return func(s *Store) {
		s.exporter = exporter
	}
}

// New creates a Store and ensures its schema exists. A failed DDL statement
// or an invalid spec is returned as an error; such a store must not be used.
func New(ctx context.Context, driver Driver, embedder ai.EmbeddingService, spec Spec, opts ...Option) (*Store, error) {
	if driver == nil {
		return nil, errors.New("driver required")
	}
	if embedder == nil {
		return nil, errors.New("embedding service required")
	}
	if spec.VectorDimensions <= 0 {
		return nil, errors.Errorf("vector dimensions must be positive, got %d", spec.VectorDimensions)
	}
	if !spec.Strategy.Valid() {
		return nil, errors.Errorf("unknown distance strategy: %d", spec.Strategy)
	}

	s := &Store{
		driver:   driver,
		embedder: embedder,
		spec:     spec,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := driver.EnsureSchema(ctx, spec.VectorDimensions, spec.OverwriteExistingTables); err != nil {
		return nil, errors.Wrap(err, "failed to ensure vector store schema")
	}
	return s, nil
}

// Spec returns the store configuration.
func (s *Store) Spec() Spec {
	return s.spec
}

// AddDocuments embeds and persists a batch of documents. Documents without an
// id are assigned a fresh UUID, written back to the input. An empty batch is
// a no-op. All rows of the batch are committed in one transaction; on any
// failure nothing is persisted and the error is returned.
func (s *Store) AddDocuments(ctx context.Context, documents []*Document) error {
	if len(documents) == 0 {
		return nil
	}

	records := make([]*VectorRecord, 0, len(documents))
	for _, document := range documents {
		if document.ID == "" {
			document.ID = uuid.NewString()
		}
		vector, err := s.embedder.Embed(ctx, document.PageContent)
		if err != nil {
			return errors.Wrapf(err, "failed to embed document %s", document.ID)
		}
		metadata := document.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}
		records = append(records, &VectorRecord{
			ID:       document.ID,
			Values:   vector,
			Metadata: metadata,
		})
	}

	start := time.Now()
	err := s.driver.InsertVectors(ctx, records)
	s.exporter.RecordInsert(len(records), time.Since(start), err)
	if err != nil {
		slog.Error("failed to insert documents", "count", len(records), "error", err)
		return err
	}
	return nil
}

// SimilaritySearch returns the topK documents nearest to query, closest
// first, each carrying its distance score and reconstructed metadata. On a
// mid-search failure the documents assembled before the failure are returned
// together with the error, so callers can tell degraded from complete
// results.
func (s *Store) SimilaritySearch(ctx context.Context, query []float32, topK int) ([]*Document, error) {
	if topK <= 0 {
		return nil, errors.Errorf("topK must be positive, got %d", topK)
	}

	start := time.Now()
	rows, err := s.driver.SimilaritySearch(ctx, query, topK, s.spec.Strategy)
	documents := AssembleDocuments(rows, query, s.spec.Strategy, s.spec.TextKey)
	s.exporter.RecordSearch(len(documents), time.Since(start), err)
	if err != nil {
		slog.Error("similarity search degraded", "assembled", len(documents), "error", err)
		return documents, err
	}
	return documents, nil
}

// Close releases the underlying driver resources.
func (s *Store) Close() error {
	return s.driver.Close()
}
