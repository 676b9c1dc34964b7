package store

import "database/sql"

// Document is a caller-owned record stored in and returned from the vector store.
type Document struct {
	// ID identifies the document. Optional on input; a fresh UUID is assigned
	// during AddDocuments when empty.
	ID string

	// PageContent is the raw text of the document. On search results it is
	// populated from the metadata entry matching the configured text key,
	// or left empty when no such entry exists.
	PageContent string

	// Metadata holds arbitrary key/value annotations, one persisted row per key.
	Metadata map[string]string

	// Score is the distance to the query vector, set only on search results.
	// Smaller means closer for every distance strategy.
	Score *float64
}

// VectorRecord is the persisted form of a document: its id, embedding vector
// and metadata. Created once per document during insertion, never mutated.
type VectorRecord struct {
	ID       string
	Values   []float32
	Metadata map[string]string
}

// JoinRow is one denormalized row of the vectors×metadata join returned by a
// driver's similarity search. Key and Value are null for vectors without any
// metadata rows.
type JoinRow struct {
	VectorID string
	Vector   []float32
	Key      sql.NullString
	Value    sql.NullString
}
