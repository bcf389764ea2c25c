package domain

import "time"

// Chunk represents a bounded slice of a document's text, the unit of
// embedding and retrieval. Title and category are denormalized from the
// parent document so that search results can be labeled without a join;
// they are refreshed on every reindex along with the embedding.
type Chunk struct {
	ID               string
	DocumentID       string
	WorkspaceID      string
	DocumentTitle    string
	DocumentCategory DocumentCategory
	ChunkIndex       int
	Content          string
	Embedding        []float32
	CreatedAt        time.Time
}
