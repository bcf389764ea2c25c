package service

import (
	"context"
	"fmt"
	"time"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/embedding"
	"github.com/copydesk/copydesk/internal/pagination"
	"github.com/copydesk/copydesk/internal/telemetry"
)

// DocumentRepositoryInterface defines the repository interface for document persistence
type DocumentRepositoryInterface interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	Update(ctx context.Context, d *domain.Document) error
	SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error
	ListByWorkspaceWithCursor(ctx context.Context, workspaceID string, cursor *pagination.Cursor, limit int) (*DocumentPageResult, error)
}

// DocumentPageResult is a cursor-paginated page of documents.
type DocumentPageResult struct {
	Items      []*domain.Document
	NextCursor string
	HasMore    bool
}

// DocumentService handles knowledge document lifecycle: creation, content
// updates and the synchronous reindex (chunk + embed + replace) that keeps
// the search index aligned with document content.
type DocumentService struct {
	workspaces WorkspaceRepositoryInterface
	documents  DocumentRepositoryInterface
	chunks     ChunkRepositoryInterface
	tx         TxRunner
	embedder   embedding.Embedder
	cache      VectorCache
	chunkCfg   ChunkConfig
	uuidGen    UUIDGenerator
}

// NewDocumentService creates a new DocumentService instance
func NewDocumentService(
	workspaces WorkspaceRepositoryInterface,
	documents DocumentRepositoryInterface,
	chunks ChunkRepositoryInterface,
	tx TxRunner,
	embedder embedding.Embedder,
	cache VectorCache,
) *DocumentService {
	return &DocumentService{
		workspaces: workspaces,
		documents:  documents,
		chunks:     chunks,
		tx:         tx,
		embedder:   embedder,
		cache:      cache,
		chunkCfg:   DefaultChunkConfig(),
		uuidGen:    &DefaultUUIDGenerator{},
	}
}

// CreateDocumentInput represents the input for creating a document
type CreateDocumentInput struct {
	WorkspaceID string
	Category    domain.DocumentCategory
	Title       string
	Content     string
}

// UpdateDocumentInput represents the input for updating a document
type UpdateDocumentInput struct {
	DocumentID string
	Title      string
	Content    string
	Category   domain.DocumentCategory
}

// Create stores a document and indexes its content. The write path is
// strict: a missing workspace or a failed index surfaces the error to the
// caller rather than degrading.
func (s *DocumentService) Create(ctx context.Context, input CreateDocumentInput) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Create", telemetry.SpanAttributes{
		WorkspaceID: input.WorkspaceID,
		Operation:   "create",
	})
	defer span.End()

	workspace, err := s.workspaces.GetByID(ctx, input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if workspace.Archived {
		return nil, domain.ErrWorkspaceArchived
	}

	doc := domain.NewDocument(
		s.uuidGen.NewString(),
		input.WorkspaceID,
		input.Category,
		input.Title,
		input.Content,
		time.Now().UTC(),
	)

	if err := domain.ValidateDocument(doc); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid document", err)
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.Reindex(ctx, doc); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to index document: %w", err)
	}

	return doc, nil
}

// GetByID returns a document by id.
func (s *DocumentService) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return s.documents.GetByID(ctx, id)
}

// Update applies content changes and reindexes the document so its chunks
// and embeddings always reflect the latest content.
func (s *DocumentService) Update(ctx context.Context, input UpdateDocumentInput) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Update", telemetry.SpanAttributes{
		DocumentID: input.DocumentID,
		Operation:  "update",
	})
	defer span.End()

	doc, err := s.documents.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		doc.Title = input.Title
	}
	if input.Content != "" {
		doc.Content = input.Content
	}
	if input.Category != "" {
		if !domain.IsValidDocumentCategory(input.Category) {
			return nil, domain.ErrInvalidDocumentCategory
		}
		doc.Category = input.Category
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.Reindex(ctx, doc); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to reindex document: %w", err)
	}

	return doc, nil
}

// Deactivate soft-deletes a document. Its chunks stay persisted for a later
// reactivation but stop appearing in search, so the cached vectors are
// dropped as well.
func (s *DocumentService) Deactivate(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Deactivate", telemetry.SpanAttributes{
		DocumentID: id,
		Operation:  "deactivate",
	})
	defer span.End()

	if _, err := s.documents.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.documents.SetActive(ctx, id, false, time.Now().UTC()); err != nil {
		return err
	}
	s.cache.RemoveDocument(id)
	return nil
}

// ListByWorkspace returns a cursor-paginated page of a workspace's documents.
func (s *DocumentService) ListByWorkspace(ctx context.Context, workspaceID, cursor string, limit int) (*DocumentPageResult, error) {
	decoded, err := pagination.DecodeCursor(cursor)
	if err != nil {
		decoded = nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.documents.ListByWorkspaceWithCursor(ctx, workspaceID, decoded, limit)
}

// Reindex regenerates the document's chunk set: old chunks are deleted and
// the new set inserted in one transaction, so the table never keeps stale
// vectors for the document. The in-process cache is refreshed afterwards;
// a search racing the reindex may briefly see zero or partial chunks for
// this one document, an accepted trade-off at this corpus size instead of
// locking the chunk set.
func (s *DocumentService) Reindex(ctx context.Context, doc *domain.Document) error {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Reindex", telemetry.SpanAttributes{
		DocumentID: doc.ID,
		Operation:  "reindex",
	})
	defer span.End()

	segments := ChunkDocument(doc.Content, s.chunkCfg)

	now := time.Now().UTC()
	chunks := make([]domain.Chunk, 0, len(segments))
	for i, segment := range segments {
		vec, err := s.embedder.Embed(ctx, segment)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, domain.Chunk{
			ID:               s.uuidGen.NewString(),
			DocumentID:       doc.ID,
			WorkspaceID:      doc.WorkspaceID,
			DocumentTitle:    doc.Title,
			DocumentCategory: doc.Category,
			ChunkIndex:       i,
			Content:          segment,
			Embedding:        vec,
			CreatedAt:        now,
		})
	}

	doc.ChunkCount = len(chunks)
	doc.UpdatedAt = now

	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Chunks().ReplaceChunks(ctx, doc.ID, chunks); err != nil {
			return err
		}
		return repos.Documents().Update(ctx, doc)
	})
	if err != nil {
		return err
	}

	s.cache.RemoveDocument(doc.ID)
	for _, c := range chunks {
		s.cache.Put(c.ID, c.DocumentID, c.Embedding)
	}
	return nil
}
