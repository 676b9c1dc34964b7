package store

// AssembleDocuments folds the denormalized join rows of a similarity search
// into an ordered collection of unique documents. Rows arrive in ranked
// order; the first row seen for a vector id materializes its document with a
// client-computed score, and every row for that id merges its metadata entry.
// The entry matching textKey additionally projects into PageContent. Rows
// without metadata (null key) only materialize the document.
func AssembleDocuments(rows []JoinRow, query []float32, strategy DistanceStrategy, textKey string) []*Document {
	order := make([]string, 0, len(rows))
	byID := make(map[string]*Document, len(rows))

	for _, row := range rows {
		doc, ok := byID[row.VectorID]
		if !ok {
			score := strategy.Score(query, row.Vector)
			doc = &Document{
				ID:       row.VectorID,
				Metadata: map[string]string{},
				Score:    &score,
			}
			byID[row.VectorID] = doc
			order = append(order, row.VectorID)
		}

		if !row.Key.Valid || !row.Value.Valid {
			continue
		}
		doc.Metadata[row.Key.String] = row.Value.String
		if textKey != "" && row.Key.String == textKey {
			doc.PageContent = row.Value.String
		}
	}

	documents := make([]*Document, 0, len(order))
	for _, id := range order {
		documents = append(documents, byID[id])
	}
	return documents
}
