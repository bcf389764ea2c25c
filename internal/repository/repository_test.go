//go:build e2e

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/pagination"
	"github.com/copydesk/copydesk/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoFixture struct {
	pool       *pgxpool.Pool
	workspaces *WorkspaceRepository
	documents  *DocumentRepository
	chunks     *ChunkRepository
	patterns   *PatternRepository
}

func setupRepos(ctx context.Context, t *testing.T) (*repoFixture, func()) {
	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	f := &repoFixture{
		pool:       pool,
		workspaces: NewWorkspaceRepository(pool),
		documents:  NewDocumentRepository(pool),
		chunks:     NewChunkRepository(pool),
		patterns:   NewPatternRepository(pool),
	}
	return f, func() {
		pool.Close()
		pgC.Terminate(ctx)
	}
}

func (f *repoFixture) reset(ctx context.Context, t *testing.T) {
	require.NoError(t, testutil.TruncateAll(ctx, f.pool))
}

func (f *repoFixture) seedWorkspace(ctx context.Context, t *testing.T, name, parentID string) *domain.Workspace {
	ws := domain.NewWorkspace(uuid.NewString(), "user-1", name, parentID, time.Now().UTC())
	require.NoError(t, f.workspaces.Create(ctx, ws))
	return ws
}

func (f *repoFixture) seedDocument(ctx context.Context, t *testing.T, workspaceID, title string, createdAt time.Time) *domain.Document {
	doc := domain.NewDocument(uuid.NewString(), workspaceID,
		domain.DocumentCategoryStyleGuide, title, "Some guidance content.", createdAt)
	require.NoError(t, f.documents.Create(ctx, doc))
	return doc
}

func testVector(seed float32) []float32 {
	vec := make([]float32, 768)
	vec[0] = seed
	vec[1] = 1
	return vec
}

func TestRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping repository integration tests in short mode")
	}

	ctx := context.Background()
	f, cleanup := setupRepos(ctx, t)
	defer cleanup()

	t.Run("WorkspaceLifecycle", func(t *testing.T) {
		f.reset(ctx, t)

		parent := f.seedWorkspace(ctx, t, "Meta", "")
		child := f.seedWorkspace(ctx, t, "Reality Labs", parent.ID)

		got, err := f.workspaces.GetByID(ctx, child.ID)
		require.NoError(t, err)
		assert.Equal(t, "Reality Labs", got.Name)
		assert.Equal(t, parent.ID, got.ParentID)
		assert.False(t, got.Archived)

		parentID, err := f.workspaces.GetParentID(ctx, child.ID)
		require.NoError(t, err)
		assert.Equal(t, parent.ID, parentID)

		// Root workspaces report an empty parent, not an error.
		parentID, err = f.workspaces.GetParentID(ctx, parent.ID)
		require.NoError(t, err)
		assert.Empty(t, parentID)

		_, err = f.workspaces.GetParentID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)

		owned, err := f.workspaces.ListByOwner(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, owned, 2)

		require.NoError(t, f.workspaces.Archive(ctx, parent.ID, time.Now().UTC()))
		got, err = f.workspaces.GetByID(ctx, parent.ID)
		require.NoError(t, err)
		assert.True(t, got.Archived)

		assert.ErrorIs(t, f.workspaces.Archive(ctx, uuid.NewString(), time.Now().UTC()),
			domain.ErrWorkspaceNotFound)
	})

	t.Run("WorkspaceNotFound", func(t *testing.T) {
		f.reset(ctx, t)

		_, err := f.workspaces.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	})

	t.Run("DocumentLifecycle", func(t *testing.T) {
		f.reset(ctx, t)

		ws := f.seedWorkspace(ctx, t, "Checkout", "")
		doc := f.seedDocument(ctx, t, ws.ID, "Payment Findings", time.Now().UTC())

		got, err := f.documents.GetByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.True(t, got.Active)

		got.Title = "Payment Findings v2"
		got.ChunkCount = 3
		got.UpdatedAt = time.Now().UTC()
		require.NoError(t, f.documents.Update(ctx, got))

		got, err = f.documents.GetByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Payment Findings v2", got.Title)
		assert.Equal(t, 3, got.ChunkCount)

		require.NoError(t, f.documents.SetActive(ctx, doc.ID, false, time.Now().UTC()))
		got, err = f.documents.GetByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)

		assert.ErrorIs(t, f.documents.SetActive(ctx, uuid.NewString(), false, time.Now().UTC()),
			domain.ErrDocumentNotFound)
	})

	t.Run("DocumentCursorPagination", func(t *testing.T) {
		f.reset(ctx, t)

		ws := f.seedWorkspace(ctx, t, "Checkout", "")
		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 5; i++ {
			f.seedDocument(ctx, t, ws.ID, fmt.Sprintf("Doc %d", i), base.Add(time.Duration(i)*time.Minute))
		}

		page1, err := f.documents.ListByWorkspaceWithCursor(ctx, ws.ID, nil, 2)
		require.NoError(t, err)
		require.Len(t, page1.Items, 2)
		assert.True(t, page1.HasMore)
		require.NotEmpty(t, page1.NextCursor)
		// Newest first.
		assert.Equal(t, "Doc 4", page1.Items[0].Title)
		assert.Equal(t, "Doc 3", page1.Items[1].Title)

		cursor, err := pagination.DecodeCursor(page1.NextCursor)
		require.NoError(t, err)

		page2, err := f.documents.ListByWorkspaceWithCursor(ctx, ws.ID, cursor, 2)
		require.NoError(t, err)
		require.Len(t, page2.Items, 2)
		assert.Equal(t, "Doc 2", page2.Items[0].Title)
		assert.Equal(t, "Doc 1", page2.Items[1].Title)
		assert.True(t, page2.HasMore)

		cursor, err = pagination.DecodeCursor(page2.NextCursor)
		require.NoError(t, err)

		page3, err := f.documents.ListByWorkspaceWithCursor(ctx, ws.ID, cursor, 2)
		require.NoError(t, err)
		require.Len(t, page3.Items, 1)
		assert.Equal(t, "Doc 0", page3.Items[0].Title)
		assert.False(t, page3.HasMore)
		assert.Empty(t, page3.NextCursor)
	})

	t.Run("ChunkReplaceAndList", func(t *testing.T) {
		f.reset(ctx, t)

		ws := f.seedWorkspace(ctx, t, "Checkout", "")
		doc := f.seedDocument(ctx, t, ws.ID, "Payment Findings", time.Now().UTC())

		now := time.Now().UTC()
		first := []domain.Chunk{
			{
				ID: uuid.NewString(), DocumentID: doc.ID, WorkspaceID: ws.ID,
				DocumentTitle: doc.Title, DocumentCategory: doc.Category,
				ChunkIndex: 0, Content: "old chunk", Embedding: testVector(1), CreatedAt: now,
			},
		}
		require.NoError(t, f.chunks.ReplaceChunks(ctx, doc.ID, first))

		second := []domain.Chunk{
			{
				ID: uuid.NewString(), DocumentID: doc.ID, WorkspaceID: ws.ID,
				DocumentTitle: doc.Title, DocumentCategory: doc.Category,
				ChunkIndex: 0, Content: "new chunk a", Embedding: testVector(2), CreatedAt: now,
			},
			{
				ID: uuid.NewString(), DocumentID: doc.ID, WorkspaceID: ws.ID,
				DocumentTitle: doc.Title, DocumentCategory: doc.Category,
				ChunkIndex: 1, Content: "new chunk b", Embedding: testVector(3), CreatedAt: now,
			},
		}
		require.NoError(t, f.chunks.ReplaceChunks(ctx, doc.ID, second))

		listed, err := f.chunks.ListByWorkspaceIDs(ctx, []string{ws.ID})
		require.NoError(t, err)
		require.Len(t, listed, 2, "replace must not leave stale chunks behind")
		assert.Equal(t, "new chunk a", listed[0].Content)
		assert.Equal(t, "new chunk b", listed[1].Content)
		assert.Empty(t, listed[0].Embedding, "listing skips the embedding column")

		vec, err := f.chunks.GetEmbedding(ctx, second[0].ID)
		require.NoError(t, err)
		require.Len(t, vec, 768)
		assert.Equal(t, float32(2), vec[0])

		_, err = f.chunks.GetEmbedding(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrChunkNotFound)
	})

	t.Run("ChunkListExcludesInactiveDocuments", func(t *testing.T) {
		f.reset(ctx, t)

		ws := f.seedWorkspace(ctx, t, "Checkout", "")
		doc := f.seedDocument(ctx, t, ws.ID, "Payment Findings", time.Now().UTC())

		require.NoError(t, f.chunks.ReplaceChunks(ctx, doc.ID, []domain.Chunk{{
			ID: uuid.NewString(), DocumentID: doc.ID, WorkspaceID: ws.ID,
			DocumentTitle: doc.Title, DocumentCategory: doc.Category,
			ChunkIndex: 0, Content: "chunk", Embedding: testVector(1), CreatedAt: time.Now().UTC(),
		}}))

		require.NoError(t, f.documents.SetActive(ctx, doc.ID, false, time.Now().UTC()))

		listed, err := f.chunks.ListByWorkspaceIDs(ctx, []string{ws.ID})
		require.NoError(t, err)
		assert.Empty(t, listed, "inactive documents' chunks must not surface in search")

		entries, err := f.chunks.ListEmbeddings(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("ChunkListEmptyWorkspaceSet", func(t *testing.T) {
		listed, err := f.chunks.ListByWorkspaceIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("PatternLibrary", func(t *testing.T) {
		f.reset(ctx, t)

		now := time.Now().UTC()
		seed := func(userID, text string, usage int64, approved bool, createdAt time.Time) *domain.Pattern {
			p := domain.NewPattern(uuid.NewString(), userID, domain.ComponentTypeButton, text,
				domain.PatternSourceManual, createdAt)
			p.Approved = approved
			p.UsageCount = usage
			require.NoError(t, f.patterns.Create(ctx, p))
			return p
		}

		heavy := seed("user-1", "Save changes", 50, true, now.Add(-2*time.Hour))
		light := seed("user-1", "Keep editing", 5, true, now.Add(-time.Hour))
		seed("user-1", "Discard draft", 99, false, now.Add(-time.Hour))
		seed("user-2", "Submit now", 80, true, now)

		approved, err := f.patterns.ListApproved(ctx, "user-1", domain.ComponentTypeButton, 10)
		require.NoError(t, err)
		require.Len(t, approved, 2, "unapproved and foreign patterns are excluded")
		assert.Equal(t, heavy.ID, approved[0].ID, "most used surfaces first")
		assert.Equal(t, light.ID, approved[1].ID)

		top, err := f.patterns.ListApproved(ctx, "user-1", domain.ComponentTypeButton, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, heavy.ID, top[0].ID)

		matched, err := f.patterns.SearchText(ctx, "user-1", "editing", "", 10)
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, light.ID, matched[0].ID)

		// Containment is case-sensitive.
		matched, err = f.patterns.SearchText(ctx, "user-1", "EDITING", "", 10)
		require.NoError(t, err)
		assert.Empty(t, matched)

		// LIKE metacharacters in the query match themselves.
		discount := seed("user-1", "Save 20% today", 1, true, now)
		matched, err = f.patterns.SearchText(ctx, "user-1", "20% today", "", 10)
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, discount.ID, matched[0].ID)

		matched, err = f.patterns.SearchText(ctx, "user-1", "20%_today", "", 10)
		require.NoError(t, err)
		assert.Empty(t, matched, "underscore must not act as a single-character wildcard")

		require.NoError(t, f.patterns.IncrementUsage(ctx, light.ID, now))
		require.NoError(t, f.patterns.IncrementUsage(ctx, light.ID, now))

		got, err := f.patterns.GetByID(ctx, light.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.UsageCount)
		require.NotNil(t, got.LastUsedAt)

		assert.ErrorIs(t, f.patterns.IncrementUsage(ctx, uuid.NewString(), now),
			domain.ErrPatternNotFound)
	})

	t.Run("PatternCursorPagination", func(t *testing.T) {
		f.reset(ctx, t)

		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 3; i++ {
			p := domain.NewPattern(uuid.NewString(), "user-1", domain.ComponentTypeButton,
				fmt.Sprintf("Pattern %d", i), domain.PatternSourceManual,
				base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, f.patterns.Create(ctx, p))
		}

		page1, err := f.patterns.ListByUserWithCursor(ctx, "user-1", nil, 2)
		require.NoError(t, err)
		require.Len(t, page1.Items, 2)
		assert.True(t, page1.HasMore)
		assert.Equal(t, "Pattern 2", page1.Items[0].Text)

		cursor, err := pagination.DecodeCursor(page1.NextCursor)
		require.NoError(t, err)

		page2, err := f.patterns.ListByUserWithCursor(ctx, "user-1", cursor, 2)
		require.NoError(t, err)
		require.Len(t, page2.Items, 1)
		assert.Equal(t, "Pattern 0", page2.Items[0].Text)
		assert.False(t, page2.HasMore)
	})
}
