package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/pagination"
	"github.com/copydesk/copydesk/internal/service"
)

// ObjectStore is the storage surface the exporter needs. The S3 client
// satisfies it; tests substitute an in-memory store.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

type workspaceReader interface {
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
}

type documentReader interface {
	ListByWorkspaceWithCursor(ctx context.Context, workspaceID string, cursor *pagination.Cursor, limit int) (*service.DocumentPageResult, error)
}

type patternReader interface {
	ListByUserWithCursor(ctx context.Context, userID string, cursor *pagination.Cursor, limit int) (*service.PatternPageResult, error)
}

const exportPageSize = 100

// Archive is the serialized form of a workspace export. Embeddings are
// deliberately excluded; they are derived data and get rebuilt on reindex.
type Archive struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Workspace  *domain.Workspace  `json:"workspace"`
	Documents  []*domain.Document `json:"documents"`
	Patterns   []*domain.Pattern  `json:"patterns"`
}

// Exporter writes workspace snapshots to object storage.
type Exporter struct {
	store      ObjectStore
	workspaces workspaceReader
	documents  documentReader
	patterns   patternReader
	now        func() time.Time
}

func NewExporter(store ObjectStore, workspaces workspaceReader, documents documentReader, patterns patternReader) *Exporter {
	return &Exporter{
		store:      store,
		workspaces: workspaces,
		documents:  documents,
		patterns:   patterns,
		now:        time.Now,
	}
}

// Export snapshots a workspace's documents and the owner's patterns into a
// single JSON object and uploads it. Returns the object key.
func (e *Exporter) Export(ctx context.Context, workspaceID string) (string, error) {
	workspace, err := e.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return "", fmt.Errorf("failed to load workspace: %w", err)
	}

	documents, err := e.collectDocuments(ctx, workspaceID)
	if err != nil {
		return "", err
	}

	patterns, err := e.collectPatterns(ctx, workspace.OwnerID)
	if err != nil {
		return "", err
	}

	archive := Archive{
		Version:    1,
		ExportedAt: e.now().UTC(),
		Workspace:  workspace,
		Documents:  documents,
		Patterns:   patterns,
	}

	data, err := json.Marshal(archive)
	if err != nil {
		return "", fmt.Errorf("failed to marshal archive: %w", err)
	}

	key := ExportKey(workspaceID, archive.ExportedAt)
	if err := e.store.PutObject(ctx, key, data, "application/json"); err != nil {
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}

	return key, nil
}

// List returns the object keys of previous exports for a workspace, newest
// keys sorting last thanks to the timestamp suffix.
func (e *Exporter) List(ctx context.Context, workspaceID string) ([]string, error) {
	return e.store.ListObjects(ctx, "exports/"+workspaceID+"/")
}

// Fetch downloads a previously written archive.
func (e *Exporter) Fetch(ctx context.Context, key string) (*Archive, error) {
	data, err := e.store.GetObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download archive: %w", err)
	}

	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("failed to parse archive: %w", err)
	}
	return &archive, nil
}

// ExportKey builds the object key for a workspace export.
func ExportKey(workspaceID string, exportedAt time.Time) string {
	return fmt.Sprintf("exports/%s/%s.json", workspaceID, exportedAt.UTC().Format("20060102T150405Z"))
}

func (e *Exporter) collectDocuments(ctx context.Context, workspaceID string) ([]*domain.Document, error) {
	var out []*domain.Document
	var cursor *pagination.Cursor
	for {
		page, err := e.documents.ListByWorkspaceWithCursor(ctx, workspaceID, cursor, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		out = append(out, page.Items...)
		if !page.HasMore || page.NextCursor == "" {
			return out, nil
		}
		cursor, err = pagination.DecodeCursor(page.NextCursor)
		if err != nil {
			return nil, fmt.Errorf("failed to decode document cursor: %w", err)
		}
	}
}

func (e *Exporter) collectPatterns(ctx context.Context, userID string) ([]*domain.Pattern, error) {
	var out []*domain.Pattern
	var cursor *pagination.Cursor
	for {
		page, err := e.patterns.ListByUserWithCursor(ctx, userID, cursor, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list patterns: %w", err)
		}
		out = append(out, page.Items...)
		if !page.HasMore || page.NextCursor == "" {
			return out, nil
		}
		cursor, err = pagination.DecodeCursor(page.NextCursor)
		if err != nil {
			return nil, fmt.Errorf("failed to decode pattern cursor: %w", err)
		}
	}
}
