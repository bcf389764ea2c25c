package service

import (
	"context"
	"time"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/telemetry"
	"github.com/google/uuid"
)

// WorkspaceRepositoryInterface defines the repository interface for workspace persistence
type WorkspaceRepositoryInterface interface {
	Create(ctx context.Context, w *domain.Workspace) error
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
	GetParentID(ctx context.Context, id string) (string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Workspace, error)
	Archive(ctx context.Context, id string, archivedAt time.Time) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// WorkspaceService handles business logic for workspaces
type WorkspaceService struct {
	repo    WorkspaceRepositoryInterface
	uuidGen UUIDGenerator
}

// NewWorkspaceService creates a new WorkspaceService instance
func NewWorkspaceService(repo WorkspaceRepositoryInterface) *WorkspaceService {
	return &WorkspaceService{
		repo:    repo,
		uuidGen: &DefaultUUIDGenerator{},
	}
}

// CreateWorkspaceInput represents the input for creating a workspace
type CreateWorkspaceInput struct {
	OwnerID  string
	Name     string
	ParentID string
}

// Create creates a workspace, verifying that any declared parent exists and
// is not archived so the ancestor chain stays resolvable.
func (s *WorkspaceService) Create(ctx context.Context, input CreateWorkspaceInput) (*domain.Workspace, error) {
	ctx, span := telemetry.StartSpan(ctx, "WorkspaceService.Create", telemetry.SpanAttributes{
		UserID:    input.OwnerID,
		Operation: "create",
	})
	defer span.End()

	if input.ParentID != "" {
		parent, err := s.repo.GetByID(ctx, input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Archived {
			return nil, domain.ErrWorkspaceArchived
		}
	}

	workspace := domain.NewWorkspace(
		s.uuidGen.NewString(),
		input.OwnerID,
		input.Name,
		input.ParentID,
		time.Now().UTC(),
	)

	if err := domain.ValidateWorkspace(workspace); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid workspace", err)
	}

	if err := s.repo.Create(ctx, workspace); err != nil {
		return nil, err
	}

	return workspace, nil
}

// GetByID returns a workspace by id.
func (s *WorkspaceService) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByOwner returns all workspaces owned by a user.
func (s *WorkspaceService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Workspace, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Archive soft-deletes a workspace. Documents remain in place; the workspace
// simply stops accepting new content.
func (s *WorkspaceService) Archive(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "WorkspaceService.Archive", telemetry.SpanAttributes{
		WorkspaceID: id,
		Operation:   "archive",
	})
	defer span.End()

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Archive(ctx, id, time.Now().UTC())
}
