package service

import (
	"context"
	"testing"
	"time"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWorkspaceRepo mocks WorkspaceRepositoryInterface
type MockWorkspaceRepo struct {
	mock.Mock
}

func (m *MockWorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkspaceRepo) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepo) GetParentID(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockWorkspaceRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Workspace, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepo) Archive(ctx context.Context, id string, archivedAt time.Time) error {
	args := m.Called(ctx, id, archivedAt)
	return args.Error(0)
}

func TestWorkspaceService_CreateRoot(t *testing.T) {
	repo := new(MockWorkspaceRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Workspace")).Return(nil)

	svc := NewWorkspaceService(repo)
	ws, err := svc.Create(context.Background(), CreateWorkspaceInput{
		OwnerID: "user-1",
		Name:    "Meta",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, ws.ID)
	assert.Equal(t, "user-1", ws.OwnerID)
	assert.Equal(t, "Meta", ws.Name)
	assert.Empty(t, ws.ParentID)
	assert.False(t, ws.Archived)
	repo.AssertNotCalled(t, "GetByID")
}

func TestWorkspaceService_CreateChildVerifiesParent(t *testing.T) {
	repo := new(MockWorkspaceRepo)
	repo.On("GetByID", mock.Anything, "parent-1").
		Return(&domain.Workspace{ID: "parent-1", OwnerID: "user-1", Name: "Meta"}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Workspace")).Return(nil)

	svc := NewWorkspaceService(repo)
	ws, err := svc.Create(context.Background(), CreateWorkspaceInput{
		OwnerID:  "user-1",
		Name:     "Reality Labs",
		ParentID: "parent-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "parent-1", ws.ParentID)
	repo.AssertExpectations(t)
}

func TestWorkspaceService_CreateRejectsMissingParent(t *testing.T) {
	repo := new(MockWorkspaceRepo)
	repo.On("GetByID", mock.Anything, "gone").Return(nil, domain.ErrWorkspaceNotFound)

	svc := NewWorkspaceService(repo)
	_, err := svc.Create(context.Background(), CreateWorkspaceInput{
		OwnerID:  "user-1",
		Name:     "Orphan",
		ParentID: "gone",
	})

	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	repo.AssertNotCalled(t, "Create")
}

func TestWorkspaceService_CreateRejectsArchivedParent(t *testing.T) {
	repo := new(MockWorkspaceRepo)
	repo.On("GetByID", mock.Anything, "parent-1").
		Return(&domain.Workspace{ID: "parent-1", OwnerID: "user-1", Name: "Old", Archived: true}, nil)

	svc := NewWorkspaceService(repo)
	_, err := svc.Create(context.Background(), CreateWorkspaceInput{
		OwnerID:  "user-1",
		Name:     "Child",
		ParentID: "parent-1",
	})

	assert.ErrorIs(t, err, domain.ErrWorkspaceArchived)
	repo.AssertNotCalled(t, "Create")
}

func TestWorkspaceService_CreateValidates(t *testing.T) {
	repo := new(MockWorkspaceRepo)

	svc := NewWorkspaceService(repo)
	_, err := svc.Create(context.Background(), CreateWorkspaceInput{OwnerID: "user-1"})

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestWorkspaceService_Archive(t *testing.T) {
	repo := new(MockWorkspaceRepo)
	repo.On("GetByID", mock.Anything, "ws-1").
		Return(&domain.Workspace{ID: "ws-1", OwnerID: "user-1", Name: "Meta"}, nil)
	repo.On("Archive", mock.Anything, "ws-1", mock.AnythingOfType("time.Time")).Return(nil)

	svc := NewWorkspaceService(repo)
	require.NoError(t, svc.Archive(context.Background(), "ws-1"))
	repo.AssertExpectations(t)
}

func TestWorkspaceService_ArchiveMissing(t *testing.T) {
	repo := new(MockWorkspaceRepo)
	repo.On("GetByID", mock.Anything, "gone").Return(nil, domain.ErrWorkspaceNotFound)

	svc := NewWorkspaceService(repo)
	err := svc.Archive(context.Background(), "gone")

	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	repo.AssertNotCalled(t, "Archive")
}
