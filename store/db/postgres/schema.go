package postgres

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// EnsureSchema creates the vectors and metadata tables, installing the
// pgvector extension first. When overwrite is set, both tables are dropped
// and recreated. Any failed statement is fatal to store construction.
func (d *DB) EnsureSchema(ctx context.Context, dimensions int, overwrite bool) error {
	if dimensions <= 0 {
		return errors.Errorf("vector dimensions must be positive, got %d", dimensions)
	}

	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
	}
	if overwrite {
		stmts = append(stmts,
			"DROP TABLE IF EXISTS metadata",
			"DROP TABLE IF EXISTS vectors",
		)
	}
	stmts = append(stmts,
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS vectors (id TEXT PRIMARY KEY, embedding vector(%d))", dimensions),
		"CREATE TABLE IF NOT EXISTS metadata (id TEXT, key TEXT, value TEXT, vector_id TEXT)",
	)

	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute schema statement: %s", stmt)
		}
	}
	return nil
}
