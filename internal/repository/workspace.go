package repository

import (
	"context"
	"errors"
	"time"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkspaceRepository handles persistence of workspaces and their parent links.
type WorkspaceRepository struct {
	db dbtx
}

func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{db: pool}
}

func (r *WorkspaceRepository) Create(ctx context.Context, w *domain.Workspace) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO workspaces (id, owner_id, name, parent_id, archived, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.OwnerID, w.Name, nullableString(w.ParentID), w.Archived, w.CreatedAt, w.UpdatedAt,
	)
	return err
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	var w domain.Workspace
	var parentID *string
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, name, parent_id, archived, created_at, updated_at
		 FROM workspaces WHERE id = $1`,
		id,
	).Scan(&w.ID, &w.OwnerID, &w.Name, &parentID, &w.Archived, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	if parentID != nil {
		w.ParentID = *parentID
	}
	return &w, nil
}

// GetParentID returns the workspace's parent id, or an empty string for a
// root workspace. A missing workspace maps to domain.ErrWorkspaceNotFound so
// hierarchy resolution can treat it as a chain terminator.
func (r *WorkspaceRepository) GetParentID(ctx context.Context, id string) (string, error) {
	var parentID *string
	err := r.db.QueryRow(ctx,
		`SELECT parent_id FROM workspaces WHERE id = $1`,
		id,
	).Scan(&parentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrWorkspaceNotFound
		}
		return "", err
	}
	if parentID == nil {
		return "", nil
	}
	return *parentID, nil
}

func (r *WorkspaceRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Workspace, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, name, parent_id, archived, created_at, updated_at
		 FROM workspaces WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*domain.Workspace
	for rows.Next() {
		var w domain.Workspace
		var parentID *string
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Name, &parentID, &w.Archived, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		if parentID != nil {
			w.ParentID = *parentID
		}
		workspaces = append(workspaces, &w)
	}
	return workspaces, rows.Err()
}

func (r *WorkspaceRepository) Archive(ctx context.Context, id string, archivedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE workspaces SET archived = TRUE, updated_at = $2 WHERE id = $1`,
		id, archivedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}
