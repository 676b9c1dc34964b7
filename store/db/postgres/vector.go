package postgres

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/emberkit/vecstore/store"
)

// InsertVectors persists a batch of records with one multi-row INSERT per
// table, both inside a single transaction. Affected-row counts are compared
// to the expected record and metadata counts; a mismatch rolls back.
func (d *DB) InsertVectors(ctx context.Context, records []*store.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	params := store.BuildQueryParameters(records, placeholder)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	vectorArgs := make([]any, 0, len(records)*2)
	metadataArgs := make([]any, 0, params.MetadataCount*4)
	for _, record := range records {
		vectorArgs = append(vectorArgs, record.ID, pgvector.NewVector(record.Values))
		for key, value := range record.Metadata {
			// The metadata row id is derived from the vector id and key; the
			// schema does not enforce its uniqueness.
			metadataArgs = append(metadataArgs, record.ID+key, key, value, record.ID)
		}
	}

	result, err := tx.ExecContext(ctx, "INSERT INTO vectors (id, embedding) VALUES "+params.VectorParams, vectorArgs...)
	if err != nil {
		return errors.Wrap(err, "failed to insert vectors")
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read vectors rows affected")
	}
	if inserted != int64(len(records)) {
		return errors.Errorf("vectors insert affected %d rows, want %d", inserted, len(records))
	}

	if params.MetadataCount > 0 {
		result, err = tx.ExecContext(ctx, "INSERT INTO metadata (id, key, value, vector_id) VALUES "+params.MetadataParams, metadataArgs...)
		if err != nil {
			return errors.Wrap(err, "failed to insert metadata")
		}
		inserted, err = result.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "failed to read metadata rows affected")
		}
		if inserted != int64(params.MetadataCount) {
			return errors.Errorf("metadata insert affected %d rows, want %d", inserted, params.MetadataCount)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit insert")
	}
	return nil
}

// SimilaritySearch returns the join rows for the topK vectors nearest to
// query. The LIMIT applies to vector rows before the LEFT JOIN to metadata,
// so documents with several metadata entries produce several rows each. On a
// mid-cursor failure the rows scanned so far are returned with the error.
func (d *DB) SimilaritySearch(ctx context.Context, query []float32, topK int, strategy store.DistanceStrategy) ([]store.JoinRow, error) {
	op := strategy.Operator()
	stmt := fmt.Sprintf(`
		SELECT v.id, v.embedding, m.key, m.value
		FROM (
			SELECT id, embedding FROM vectors ORDER BY embedding %s $1 LIMIT $2
		) v
		LEFT JOIN metadata m ON m.vector_id = v.id
		ORDER BY v.embedding %s $1
	`, op, op)

	rows, err := d.db.QueryContext(ctx, stmt, pgvector.NewVector(query), topK)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute similarity search")
	}
	defer rows.Close()

	joinRows := []store.JoinRow{}
	for rows.Next() {
		var row store.JoinRow
		var vector pgvector.Vector
		if err := rows.Scan(&row.VectorID, &vector, &row.Key, &row.Value); err != nil {
			return joinRows, errors.Wrap(err, "failed to scan similarity search row")
		}
		row.Vector = vector.Slice()
		joinRows = append(joinRows, row)
	}
	if err := rows.Err(); err != nil {
		return joinRows, errors.Wrap(err, "similarity search cursor failed")
	}
	return joinRows, nil
}
