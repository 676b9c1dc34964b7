package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/emberkit/vecstore/store"
)

// EnsureSchema creates the vectors and metadata tables. Vectors are stored as
// BLOBs of little-endian float32 values. When overwrite is set, both tables
// are dropped and recreated.
func (d *DB) EnsureSchema(ctx context.Context, dimensions int, overwrite bool) error {
	if dimensions <= 0 {
		return errors.Errorf("vector dimensions must be positive, got %d", dimensions)
	}

	var stmts []string
	if overwrite {
		stmts = append(stmts,
			"DROP TABLE IF EXISTS metadata",
			"DROP TABLE IF EXISTS vectors",
		)
	}
	stmts = append(stmts,
		"CREATE TABLE IF NOT EXISTS vectors (id TEXT PRIMARY KEY, embedding BLOB)",
		"CREATE TABLE IF NOT EXISTS metadata (id TEXT, key TEXT, value TEXT, vector_id TEXT)",
	)

	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute schema statement: %s", stmt)
		}
	}
	return nil
}

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
		vectorArgs = append(vectorArgs, record.ID, encodeVector(record.Values))
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

type candidate struct {
	id     string
	vector []float32
	score  float64
}

// SimilaritySearch ranks all stored vectors against query in the application
// layer, keeps the topK closest, and emulates the vectors×metadata LEFT JOIN
// in ranked order.
func (d *DB) SimilaritySearch(ctx context.Context, query []float32, topK int, strategy store.DistanceStrategy) ([]store.JoinRow, error) {
	candidates, err := d.rankVectors(ctx, query, topK, strategy)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []store.JoinRow{}, nil
	}

	metadata, err := d.metadataFor(ctx, candidates)
	joinRows := []store.JoinRow{}
	for _, cand := range candidates {
		entries := metadata[cand.id]
		if len(entries) == 0 {
			joinRows = append(joinRows, store.JoinRow{VectorID: cand.id, Vector: cand.vector})
			continue
		}
		for _, entry := range entries {
			joinRows = append(joinRows, store.JoinRow{
				VectorID: cand.id,
				Vector:   cand.vector,
				Key:      sql.NullString{String: entry.key, Valid: true},
				Value:    sql.NullString{String: entry.value, Valid: true},
			})
		}
	}
	if err != nil {
		return joinRows, err
	}
	return joinRows, nil
}

func (d *DB) rankVectors(ctx context.Context, query []float32, topK int, strategy store.DistanceStrategy) ([]candidate, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT id, embedding FROM vectors")
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan vectors table")
	}
	defer rows.Close()

	var candidates []candidate
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector row")
		}
		vector, err := decodeVector(blob)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode vector %s", id)
		}
		candidates = append(candidates, candidate{
			id:     id,
			vector: vector,
			score:  strategy.Score(query, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "vectors cursor failed")
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

type metadataEntry struct {
	key   string
	value string
}

// metadataFor loads the metadata rows of the selected candidates, grouped by
// vector id. On a mid-cursor failure the rows read so far are returned with
// the error so the caller can still produce partial results.
func (d *DB) metadataFor(ctx context.Context, candidates []candidate) (map[string][]metadataEntry, error) {
	placeholders := make([]string, len(candidates))
	args := make([]any, len(candidates))
	for i, cand := range candidates {
		placeholders[i] = "?"
		args[i] = cand.id
	}

	grouped := map[string][]metadataEntry{}
	query := "SELECT vector_id, key, value FROM metadata WHERE vector_id IN (" + strings.Join(placeholders, ", ") + ")"
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return grouped, errors.Wrap(err, "failed to query metadata")
	}
	defer rows.Close()

	for rows.Next() {
		var vectorID string
		var entry metadataEntry
		if err := rows.Scan(&vectorID, &entry.key, &entry.value); err != nil {
			return grouped, errors.Wrap(err, "failed to scan metadata row")
		}
		grouped[vectorID] = append(grouped[vectorID], entry)
	}
	if err := rows.Err(); err != nil {
		return grouped, errors.Wrap(err, "metadata cursor failed")
	}
	return grouped, nil
}

// encodeVector serializes a vector as little-endian float32 values.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}

// decodeVector is the inverse of encodeVector.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, errors.Errorf("invalid vector blob length: %d", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4 : i*4+4]))
	}
	return vector, nil
}
