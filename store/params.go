package store

import "strings"

// Column counts of the two insert statements: vectors bind (id, embedding),
// metadata binds (id, key, value, vector_id).
const (
	vectorColumnCount   = 2
	metadataColumnCount = 4
)

// PlaceholderFunc renders the n-th positional bind parameter of a statement,
// e.g. "$3" for Postgres or "?" for SQLite. Numbering starts at 1 and is
// independent per statement.
type PlaceholderFunc func(n int) string

// QueryParameters is the transient output of building one batched insert:
// the records to persist, the placeholder group strings sized to the batch
// for the vectors and metadata statements, and the total metadata row count.
type QueryParameters struct {
	Records        []*VectorRecord
	VectorParams   string
	MetadataParams string
	MetadataCount  int
}

// BuildQueryParameters sizes the two insert placeholder strings to a batch of
// records: one (id, embedding) group per record, one (id, key, value,
// vector_id) group per metadata entry. An empty batch yields empty strings.
func BuildQueryParameters(records []*VectorRecord, ph PlaceholderFunc) *QueryParameters {
	var vectorGroups, metadataGroups []string
	vectorIndex, metadataIndex := 1, 1
	metadataCount := 0

	for _, record := range records {
		vectorGroups = append(vectorGroups, placeholderGroup(ph, &vectorIndex, vectorColumnCount))
		for range record.Metadata {
			metadataGroups = append(metadataGroups, placeholderGroup(ph, &metadataIndex, metadataColumnCount))
			metadataCount++
		}
	}

	return &QueryParameters{
		Records:        records,
		VectorParams:   strings.Join(vectorGroups, ", "),
		MetadataParams: strings.Join(metadataGroups, ", "),
		MetadataCount:  metadataCount,
	}
}

func placeholderGroup(ph PlaceholderFunc, next *int, columns int) string {
	parts := make([]string, columns)
	for i := range parts {
		parts[i] = ph(*next)
		*next++
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
