package service

import (
	"context"
	"log"
	"time"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/pagination"
	"github.com/copydesk/copydesk/internal/telemetry"
)

// PatternRepositoryInterface defines the repository interface for pattern persistence
type PatternRepositoryInterface interface {
	Create(ctx context.Context, p *domain.Pattern) error
	GetByID(ctx context.Context, id string) (*domain.Pattern, error)
	ListApproved(ctx context.Context, userID string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error)
	SearchText(ctx context.Context, userID, query string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error)
	ListByUserWithCursor(ctx context.Context, userID string, cursor *pagination.Cursor, limit int) (*PatternPageResult, error)
	IncrementUsage(ctx context.Context, id string, usedAt time.Time) error
}

// PatternPageResult is a cursor-paginated page of patterns.
type PatternPageResult struct {
	Items      []*domain.Pattern
	NextCursor string
	HasMore    bool
}

// PatternService handles lookups over the verified copy-pattern library.
// All lookups are scoped to a single user; one user's patterns are never
// visible in another user's results.
type PatternService struct {
	repo    PatternRepositoryInterface
	uuidGen UUIDGenerator
	now     func() time.Time
}

// NewPatternService creates a new PatternService instance
func NewPatternService(repo PatternRepositoryInterface) *PatternService {
	return &PatternService{
		repo:    repo,
		uuidGen: &DefaultUUIDGenerator{},
		now:     time.Now,
	}
}

// CreatePatternInput represents the input for creating a pattern
type CreatePatternInput struct {
	UserID         string
	WorkspaceID    string
	ComponentType  domain.ComponentType
	Text           string
	Context        string
	Source         domain.PatternSource
	Approved       bool
	ABTestWinner   bool
	ConversionLift *float64
	UXRValidated   bool
}

// Create validates and stores a new copy pattern.
func (s *PatternService) Create(ctx context.Context, input CreatePatternInput) (*domain.Pattern, error) {
	now := s.now().UTC()

	source := input.Source
	if source == "" {
		source = domain.PatternSourceManual
	}

	pattern := &domain.Pattern{
		ID:             s.uuidGen.NewString(),
		UserID:         input.UserID,
		WorkspaceID:    input.WorkspaceID,
		ComponentType:  input.ComponentType,
		Text:           input.Text,
		Context:        input.Context,
		Source:         source,
		Approved:       input.Approved,
		ABTestWinner:   input.ABTestWinner,
		ConversionLift: input.ConversionLift,
		UXRValidated:   input.UXRValidated,
		CreatedAt:      now,
	}

	if err := domain.ValidatePattern(pattern); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid pattern", err)
	}

	if err := s.repo.Create(ctx, pattern); err != nil {
		return nil, err
	}

	return pattern, nil
}

// Find returns approved patterns for the user and component type, ordered by
// usage count descending then creation time descending, so the most proven
// copy surfaces first. Persistence failures degrade to an empty result.
func (s *PatternService) Find(ctx context.Context, userID string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error) {
	ctx, span := telemetry.StartSpan(ctx, "PatternService.Find", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "find",
	})
	defer span.End()

	if userID == "" {
		return []*domain.Pattern{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	patterns, err := s.repo.ListApproved(ctx, userID, componentType, limit)
	if err != nil {
		log.Printf("pattern find: lookup failed, returning no patterns: %v", err)
		return []*domain.Pattern{}, nil
	}
	return patterns, nil
}

// SearchText performs substring matching on pattern text, scoped to the user
// and optionally a component type. Matching is case-sensitive containment.
func (s *PatternService) SearchText(ctx context.Context, userID, query string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error) {
	ctx, span := telemetry.StartSpan(ctx, "PatternService.SearchText", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "search_text",
	})
	defer span.End()

	if userID == "" || query == "" {
		return []*domain.Pattern{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	patterns, err := s.repo.SearchText(ctx, userID, query, componentType, limit)
	if err != nil {
		log.Printf("pattern search: lookup failed, returning no patterns: %v", err)
		return []*domain.Pattern{}, nil
	}
	return patterns, nil
}

// GetByID returns a single pattern by id. A pattern owned by a different
// user is reported as not found rather than forbidden, so ids cannot be
// enumerated across user boundaries.
func (s *PatternService) GetByID(ctx context.Context, userID, id string) (*domain.Pattern, error) {
	pattern, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pattern.UserID != userID {
		return nil, domain.ErrPatternNotFound
	}
	return pattern, nil
}

// ListByUser returns a cursor-paginated page of the user's patterns.
func (s *PatternService) ListByUser(ctx context.Context, userID, cursor string, limit int) (*PatternPageResult, error) {
	decoded, err := pagination.DecodeCursor(cursor)
	if err != nil {
		decoded = nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListByUserWithCursor(ctx, userID, decoded, limit)
}

// RecordUsage increments the pattern's usage counter and stamps last use.
// Each call adds exactly one use. The contract is fire-and-forget: a failure
// is logged and swallowed so it can never block or fail the generation flow
// that triggered it.
func (s *PatternService) RecordUsage(ctx context.Context, patternID string) {
	if patternID == "" {
		return
	}
	if err := s.repo.IncrementUsage(ctx, patternID, s.now().UTC()); err != nil {
		log.Printf("pattern usage: failed to record usage for %s: %v", patternID, err)
	}
}
