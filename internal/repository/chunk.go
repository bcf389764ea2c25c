package repository

import (
	"context"
	"errors"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ChunkRepository handles persistence of document chunks and their embeddings.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx pgx.Tx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// ReplaceChunks deletes existing chunks for a document and inserts the new
// set, so a reindex can never leave stale vectors behind.
func (r *ChunkRepository) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID)
	if err != nil {
		return err
	}

	for _, c := range chunks {
		_, err := r.db.Exec(ctx,
			`INSERT INTO chunks
				(id, document_id, workspace_id, document_title, document_category, chunk_index, content, embedding, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			c.ID,
			c.DocumentID,
			c.WorkspaceID,
			c.DocumentTitle,
			c.DocumentCategory,
			c.ChunkIndex,
			c.Content,
			pgvector.NewVector(c.Embedding),
			c.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// ListByWorkspaceIDs returns every chunk whose parent document is active and
// belongs to one of the given workspaces. Embeddings are not selected here;
// scoring reads them through the vector cache with per-chunk fallback.
func (r *ChunkRepository) ListByWorkspaceIDs(ctx context.Context, workspaceIDs []string) ([]*domain.Chunk, error) {
	if len(workspaceIDs) == 0 {
		return []*domain.Chunk{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.document_id, c.workspace_id, c.document_title, c.document_category, c.chunk_index, c.content, c.created_at
		 FROM chunks c
		 JOIN documents d ON d.id = c.document_id
		 WHERE c.workspace_id = ANY($1) AND d.active
		 ORDER BY c.document_id, c.chunk_index`,
		workspaceIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.WorkspaceID, &c.DocumentTitle,
			&c.DocumentCategory, &c.ChunkIndex, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

// GetEmbedding reads a single chunk's stored embedding. A row that fails to
// scan as a vector maps to domain.ErrInvalidEmbedding so the caller can skip
// the one bad record instead of aborting.
func (r *ChunkRepository) GetEmbedding(ctx context.Context, chunkID string) ([]float32, error) {
	var vec pgvector.Vector
	err := r.db.QueryRow(ctx,
		`SELECT embedding FROM chunks WHERE id = $1`,
		chunkID,
	).Scan(&vec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChunkNotFound
		}
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "stored embedding is malformed", err)
	}
	return vec.Slice(), nil
}

// ListEmbeddings returns every active chunk's embedding for bulk cache
// loading at startup. Malformed rows are skipped, not fatal.
func (r *ChunkRepository) ListEmbeddings(ctx context.Context) ([]service.CachedVector, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.document_id, c.embedding
		 FROM chunks c
		 JOIN documents d ON d.id = c.document_id
		 WHERE d.active`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []service.CachedVector
	for rows.Next() {
		var entry service.CachedVector
		var vec pgvector.Vector
		if err := rows.Scan(&entry.ChunkID, &entry.DocumentID, &vec); err != nil {
			continue
		}
		entry.Embedding = vec.Slice()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
