package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPatternRepo mocks PatternRepositoryInterface
type MockPatternRepo struct {
	mock.Mock
}

func (m *MockPatternRepo) Create(ctx context.Context, p *domain.Pattern) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatternRepo) GetByID(ctx context.Context, id string) (*domain.Pattern, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pattern), args.Error(1)
}

func (m *MockPatternRepo) ListApproved(ctx context.Context, userID string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error) {
	args := m.Called(ctx, userID, componentType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pattern), args.Error(1)
}

func (m *MockPatternRepo) SearchText(ctx context.Context, userID, query string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error) {
	args := m.Called(ctx, userID, query, componentType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pattern), args.Error(1)
}

func (m *MockPatternRepo) ListByUserWithCursor(ctx context.Context, userID string, cursor *pagination.Cursor, limit int) (*PatternPageResult, error) {
	args := m.Called(ctx, userID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PatternPageResult), args.Error(1)
}

func (m *MockPatternRepo) IncrementUsage(ctx context.Context, id string, usedAt time.Time) error {
	args := m.Called(ctx, id, usedAt)
	return args.Error(0)
}

// stubUUIDGen returns a fixed id so created entities are assertable.
type stubUUIDGen struct{ id string }

func (g *stubUUIDGen) NewString() string { return g.id }

func newPatternFixture() (*PatternService, *MockPatternRepo, time.Time) {
	repo := new(MockPatternRepo)
	svc := NewPatternService(repo)
	svc.uuidGen = &stubUUIDGen{id: "pat-1"}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo, now
}

func TestPatternService_Create(t *testing.T) {
	svc, repo, now := newPatternFixture()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Pattern")).Return(nil)

	pattern, err := svc.Create(context.Background(), CreatePatternInput{
		UserID:        "user-1",
		ComponentType: domain.ComponentTypeButton,
		Text:          "Save changes",
		Approved:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, "pat-1", pattern.ID)
	assert.Equal(t, "user-1", pattern.UserID)
	assert.Equal(t, domain.PatternSourceManual, pattern.Source, "source defaults to manual")
	assert.True(t, pattern.Approved)
	assert.Equal(t, now, pattern.CreatedAt)
	assert.Zero(t, pattern.UsageCount)
	repo.AssertExpectations(t)
}

func TestPatternService_Create_InvalidComponentType(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	_, err := svc.Create(context.Background(), CreatePatternInput{
		UserID:        "user-1",
		ComponentType: "hero_banner",
		Text:          "Save changes",
	})

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestPatternService_Create_EmptyText(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	_, err := svc.Create(context.Background(), CreatePatternInput{
		UserID:        "user-1",
		ComponentType: domain.ComponentTypeButton,
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestPatternService_Find(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	expected := []*domain.Pattern{
		{ID: "pat-a", UserID: "user-1", Text: "Save changes", UsageCount: 50},
		{ID: "pat-b", UserID: "user-1", Text: "Keep editing", UsageCount: 5},
	}
	repo.On("ListApproved", mock.Anything, "user-1", domain.ComponentTypeButton, 10).
		Return(expected, nil)

	patterns, err := svc.Find(context.Background(), "user-1", domain.ComponentTypeButton, 0)

	require.NoError(t, err)
	assert.Equal(t, expected, patterns)
	repo.AssertExpectations(t)
}

func TestPatternService_Find_EmptyUser(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	patterns, err := svc.Find(context.Background(), "", domain.ComponentTypeButton, 5)

	require.NoError(t, err)
	assert.Empty(t, patterns)
	repo.AssertNotCalled(t, "ListApproved")
}

func TestPatternService_Find_RepositoryFailureDegradesToEmpty(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	repo.On("ListApproved", mock.Anything, "user-1", domain.ComponentTypeButton, 5).
		Return(nil, errors.New("connection refused"))

	patterns, err := svc.Find(context.Background(), "user-1", domain.ComponentTypeButton, 5)

	require.NoError(t, err, "pattern lookup must degrade, not fail the caller")
	assert.Empty(t, patterns)
}

func TestPatternService_SearchText_EmptyQuery(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	patterns, err := svc.SearchText(context.Background(), "user-1", "", domain.ComponentTypeButton, 5)

	require.NoError(t, err)
	assert.Empty(t, patterns)
	repo.AssertNotCalled(t, "SearchText")
}

func TestPatternService_GetByID_OwnPattern(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	stored := &domain.Pattern{ID: "pat-a", UserID: "user-1", Text: "Save changes"}
	repo.On("GetByID", mock.Anything, "pat-a").Return(stored, nil)

	pattern, err := svc.GetByID(context.Background(), "user-1", "pat-a")

	require.NoError(t, err)
	assert.Equal(t, stored, pattern)
}

func TestPatternService_GetByID_CrossUserReadsAsNotFound(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	stored := &domain.Pattern{ID: "pat-a", UserID: "user-1", Text: "Save changes"}
	repo.On("GetByID", mock.Anything, "pat-a").Return(stored, nil)

	_, err := svc.GetByID(context.Background(), "user-2", "pat-a")

	assert.ErrorIs(t, err, domain.ErrPatternNotFound,
		"foreign ids must be indistinguishable from missing ones")
}

func TestPatternService_ListByUser_IgnoresMalformedCursor(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	repo.On("ListByUserWithCursor", mock.Anything, "user-1", (*pagination.Cursor)(nil), 20).
		Return(&PatternPageResult{Items: []*domain.Pattern{}}, nil)

	_, err := svc.ListByUser(context.Background(), "user-1", "not-base64!!!", 0)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPatternService_RecordUsage(t *testing.T) {
	svc, repo, now := newPatternFixture()

	repo.On("IncrementUsage", mock.Anything, "pat-a", now).Return(nil).Once()

	svc.RecordUsage(context.Background(), "pat-a")

	repo.AssertExpectations(t)
}

func TestPatternService_RecordUsage_SwallowsFailure(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	repo.On("IncrementUsage", mock.Anything, "pat-a", mock.Anything).
		Return(errors.New("connection refused"))

	// Must not panic or propagate; the generation flow never sees this.
	svc.RecordUsage(context.Background(), "pat-a")
}

func TestPatternService_RecordUsage_EmptyID(t *testing.T) {
	svc, repo, _ := newPatternFixture()

	svc.RecordUsage(context.Background(), "")

	repo.AssertNotCalled(t, "IncrementUsage")
}
