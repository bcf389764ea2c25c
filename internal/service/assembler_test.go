package service

import (
	"context"
	"errors"
	"testing"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKnowledgeSearcher mocks KnowledgeSearcher
type MockKnowledgeSearcher struct {
	mock.Mock
}

func (m *MockKnowledgeSearcher) Search(ctx context.Context, query, workspaceID string, limit int) ([]*Passage, error) {
	args := m.Called(ctx, query, workspaceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Passage), args.Error(1)
}

// MockPatternFinder mocks PatternFinder
type MockPatternFinder struct {
	mock.Mock
}

func (m *MockPatternFinder) Find(ctx context.Context, userID string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error) {
	args := m.Called(ctx, userID, componentType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pattern), args.Error(1)
}

func assembleInput() AssembleInput {
	return AssembleInput{
		Query:         "confirm saving a draft",
		WorkspaceID:   "ws-1",
		UserID:        "user-1",
		ComponentType: domain.ComponentTypeButton,
	}
}

func TestContextAssembler_MergesBothSections(t *testing.T) {
	knowledge := new(MockKnowledgeSearcher)
	patterns := new(MockPatternFinder)

	knowledge.On("Search", mock.Anything, "confirm saving a draft", "ws-1", defaultPassageLimit).
		Return([]*Passage{
			{
				ChunkID:          "chunk-1",
				DocumentTitle:    "Global Voice",
				DocumentCategory: domain.DocumentCategoryStyleGuide,
				Content:          "Our voice is direct and human.",
				Similarity:       0.8,
			},
		}, nil)
	patterns.On("Find", mock.Anything, "user-1", domain.ComponentTypeButton, defaultPatternLimit).
		Return([]*domain.Pattern{
			{ID: "pat-1", Text: "Save changes", Context: "settings page", ABTestWinner: true},
			{ID: "pat-2", Text: "Keep editing", UXRValidated: true},
		}, nil)

	assembler := NewContextAssembler(knowledge, patterns)
	out, err := assembler.Assemble(context.Background(), assembleInput())

	require.NoError(t, err)
	want := "Relevant guidance from your knowledge base:\n" +
		"- [style_guide] Global Voice: Our voice is direct and human.\n" +
		"\n" +
		"Verified copy patterns you have used before:\n" +
		"1. \"Save changes\" (settings page) [A/B winner]\n" +
		"2. \"Keep editing\" [UXR validated]\n"
	assert.Equal(t, want, out.Text)
	assert.Len(t, out.Passages, 1)
	assert.Len(t, out.Patterns, 2)
}

func TestContextAssembler_AppliesRelevanceFloor(t *testing.T) {
	knowledge := new(MockKnowledgeSearcher)
	patterns := new(MockPatternFinder)

	knowledge.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*Passage{
			{ChunkID: "chunk-strong", DocumentTitle: "Doc", Content: "strong", Similarity: 0.5},
			{ChunkID: "chunk-at-floor", DocumentTitle: "Doc", Content: "borderline", Similarity: RelevanceFloor},
			{ChunkID: "chunk-weak", DocumentTitle: "Doc", Content: "weak", Similarity: 0.02},
		}, nil)
	patterns.On("Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*domain.Pattern{}, nil)

	assembler := NewContextAssembler(knowledge, patterns)
	out, err := assembler.Assemble(context.Background(), assembleInput())

	require.NoError(t, err)
	require.Len(t, out.Passages, 1, "floor is exclusive: only strictly stronger passages survive")
	assert.Equal(t, "chunk-strong", out.Passages[0].ChunkID)
	assert.NotContains(t, out.Text, "borderline")
	assert.NotContains(t, out.Text, "weak")
}

func TestContextAssembler_EmptyRetrievalYieldsEmptyText(t *testing.T) {
	knowledge := new(MockKnowledgeSearcher)
	patterns := new(MockPatternFinder)

	knowledge.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*Passage{}, nil)
	patterns.On("Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*domain.Pattern{}, nil)

	assembler := NewContextAssembler(knowledge, patterns)
	out, err := assembler.Assemble(context.Background(), assembleInput())

	require.NoError(t, err)
	assert.Empty(t, out.Text, "no headers without content")
}

func TestContextAssembler_SearchFailureOmitsSection(t *testing.T) {
	knowledge := new(MockKnowledgeSearcher)
	patterns := new(MockPatternFinder)

	knowledge.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))
	patterns.On("Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*domain.Pattern{{ID: "pat-1", Text: "Save changes"}}, nil)

	assembler := NewContextAssembler(knowledge, patterns)
	out, err := assembler.Assemble(context.Background(), assembleInput())

	require.NoError(t, err, "a failed sub-search must not fail the assembly")
	assert.NotContains(t, out.Text, "knowledge base")
	assert.Contains(t, out.Text, "Verified copy patterns")
	assert.Empty(t, out.Passages)
	assert.Len(t, out.Patterns, 1)
}

func TestContextAssembler_PatternFailureOmitsSection(t *testing.T) {
	knowledge := new(MockKnowledgeSearcher)
	patterns := new(MockPatternFinder)

	knowledge.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*Passage{
			{ChunkID: "chunk-1", DocumentTitle: "Doc", Content: "guidance", Similarity: 0.9},
		}, nil)
	patterns.On("Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	assembler := NewContextAssembler(knowledge, patterns)
	out, err := assembler.Assemble(context.Background(), assembleInput())

	require.NoError(t, err)
	assert.Contains(t, out.Text, "knowledge base")
	assert.NotContains(t, out.Text, "Verified copy patterns")
	assert.Empty(t, out.Patterns)
}

func TestRenderContext_PatternsOnlyHasNoLeadingBlankLine(t *testing.T) {
	text := renderContext(nil, []*domain.Pattern{{ID: "pat-1", Text: "Save changes"}})

	assert.Equal(t, "Verified copy patterns you have used before:\n1. \"Save changes\"\n", text)
}
