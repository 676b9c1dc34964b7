package store

import (
	"context"
	"database/sql"
)

// Driver provides backend-specific access to the vectors and metadata tables.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// EnsureSchema makes sure the vectors and metadata tables exist with the
	// given vector dimension. When overwrite is set, both tables are dropped
	// and recreated. A failed DDL statement is returned as an error and makes
	// the store unusable.
	EnsureSchema(ctx context.Context, dimensions int, overwrite bool) error

	// InsertVectors persists a batch of records: one vectors row per record
	// and one metadata row per metadata entry, both inside a single
	// transaction that is rolled back on any failure or affected-row count
	// mismatch.
	InsertVectors(ctx context.Context, records []*VectorRecord) error

	// SimilaritySearch returns the vectors×metadata join rows for the topK
	// vectors nearest to query, in ranked order. The limit applies to vector
	// rows, not join rows. On a mid-cursor failure the rows scanned so far
	// are returned together with the error.
	SimilaritySearch(ctx context.Context, query []float32, topK int, strategy DistanceStrategy) ([]JoinRow, error)
}
