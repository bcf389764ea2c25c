package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/embedding"
	"github.com/copydesk/copydesk/internal/telemetry"
)

// Passage is a ranked knowledge-search result: a chunk joined with its
// parent document's display metadata.
type Passage struct {
	ChunkID          string
	DocumentID       string
	DocumentTitle    string
	DocumentCategory domain.DocumentCategory
	Content          string
	Similarity       float32
}

// ChunkRepositoryInterface defines the repository interface for chunk persistence
type ChunkRepositoryInterface interface {
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error
	ListByWorkspaceIDs(ctx context.Context, workspaceIDs []string) ([]*domain.Chunk, error)
	GetEmbedding(ctx context.Context, chunkID string) ([]float32, error)
	ListEmbeddings(ctx context.Context) ([]CachedVector, error)
}

// KnowledgeSearchService ranks knowledge chunks across a workspace's
// ancestor chain by embedding similarity to a free-text query.
type KnowledgeSearchService struct {
	chunks    ChunkRepositoryInterface
	hierarchy *HierarchyResolver
	embedder  embedding.Embedder
	cache     VectorCache
}

// NewKnowledgeSearchService creates a new KnowledgeSearchService instance
func NewKnowledgeSearchService(
	chunks ChunkRepositoryInterface,
	hierarchy *HierarchyResolver,
	embedder embedding.Embedder,
	cache VectorCache,
) *KnowledgeSearchService {
	return &KnowledgeSearchService{
		chunks:    chunks,
		hierarchy: hierarchy,
		embedder:  embedder,
		cache:     cache,
	}
}

// LoadCache bulk-populates the vector cache from persisted chunk embeddings.
// Called once at startup; a failure leaves the cache cold, not the service
// broken, since searches fall back to the repository per chunk.
func (s *KnowledgeSearchService) LoadCache(ctx context.Context) error {
	entries, err := s.chunks.ListEmbeddings(ctx)
	if err != nil {
		return err
	}
	s.cache.Load(entries)
	return nil
}

// Search returns up to limit passages ranked by cosine similarity between
// the query embedding and every active chunk visible from workspaceID
// (its own documents plus all ancestors'). Ordering is deterministic:
// similarity descending, then chunk id ascending on exact ties.
//
// Search does not apply a relevance floor; weak passages are returned with
// their scores and filtering is left to the consumer, so retrieval and
// filtering stay separable. Persistence failures degrade to an empty result
// rather than an error: generation proceeds ungrounded instead of failing.
func (s *KnowledgeSearchService) Search(ctx context.Context, query, workspaceID string, limit int) ([]*Passage, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeSearchService.Search", telemetry.SpanAttributes{
		WorkspaceID: workspaceID,
		Operation:   "search",
	})
	defer span.End()

	if strings.TrimSpace(query) == "" || workspaceID == "" {
		return []*Passage{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	chain, err := s.hierarchy.Ancestors(ctx, workspaceID)
	if err != nil {
		// Degraded, not failed: report it so the quality loss is visible.
		telemetry.CaptureError(ctx, err)
		log.Printf("knowledge search: hierarchy resolution failed, returning no passages: %v", err)
		return []*Passage{}, nil
	}
	if len(chain) == 0 {
		return []*Passage{}, nil
	}

	candidates, err := s.chunks.ListByWorkspaceIDs(ctx, chain)
	if err != nil {
		telemetry.CaptureError(ctx, err)
		log.Printf("knowledge search: chunk listing failed, returning no passages: %v", err)
		return []*Passage{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	passages := make([]*Passage, 0, len(candidates))
	for _, c := range candidates {
		vec, ok := s.chunkEmbedding(ctx, c)
		if !ok {
			// A single malformed embedding must not abort the whole search.
			continue
		}
		passages = append(passages, &Passage{
			ChunkID:          c.ID,
			DocumentID:       c.DocumentID,
			DocumentTitle:    c.DocumentTitle,
			DocumentCategory: c.DocumentCategory,
			Content:          c.Content,
			Similarity:       embedding.Cosine(queryVec, vec),
		})
	}

	sort.Slice(passages, func(i, j int) bool {
		if passages[i].Similarity != passages[j].Similarity {
			return passages[i].Similarity > passages[j].Similarity
		}
		return passages[i].ChunkID < passages[j].ChunkID
	})

	if len(passages) > limit {
		passages = passages[:limit]
	}
	return passages, nil
}

// chunkEmbedding resolves a chunk's embedding through the cache, falling
// back to the persisted row on a miss and backfilling the cache.
func (s *KnowledgeSearchService) chunkEmbedding(ctx context.Context, c *domain.Chunk) ([]float32, bool) {
	if vec, ok := s.cache.Get(c.ID); ok {
		return vec, len(vec) > 0
	}

	vec := c.Embedding
	if len(vec) == 0 {
		stored, err := s.chunks.GetEmbedding(ctx, c.ID)
		if err != nil {
			log.Printf("knowledge search: skipping chunk %s, embedding unavailable: %v", c.ID, err)
			return nil, false
		}
		vec = stored
	}
	if len(vec) == 0 {
		return nil, false
	}

	s.cache.Put(c.ID, c.DocumentID, vec)
	return vec, true
}
