package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/telemetry"
)

// RelevanceFloor is the minimum similarity a knowledge passage needs before
// it is considered strong enough to inject into a prompt. The search itself
// returns weaker passages with their scores; the floor is applied here, at
// the consumption boundary.
const RelevanceFloor = 0.1

// defaultPassageLimit and defaultPatternLimit bound how much retrieved
// material a single prompt can carry.
const (
	defaultPassageLimit = 5
	defaultPatternLimit = 5
)

// KnowledgeSearcher is the knowledge-retrieval dependency of the assembler.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query, workspaceID string, limit int) ([]*Passage, error)
}

// PatternFinder is the pattern-retrieval dependency of the assembler.
type PatternFinder interface {
	Find(ctx context.Context, userID string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error)
}

// AssembleInput represents input for context assembly
type AssembleInput struct {
	Query         string
	WorkspaceID   string
	UserID        string
	ComponentType domain.ComponentType
}

// AssembledContext is the merged retrieval output injected into the LLM
// prompt, along with the raw results it was built from so the caller can
// attribute usage after a successful generation.
type AssembledContext struct {
	Text     string
	Passages []*Passage
	Patterns []*domain.Pattern
}

// ContextAssembler merges knowledge-search passages and pattern-library
// results into a single text block for prompt injection.
type ContextAssembler struct {
	knowledge KnowledgeSearcher
	patterns  PatternFinder
}

// NewContextAssembler creates a new ContextAssembler instance
func NewContextAssembler(knowledge KnowledgeSearcher, patterns PatternFinder) *ContextAssembler {
	return &ContextAssembler{
		knowledge: knowledge,
		patterns:  patterns,
	}
}

// Assemble runs the knowledge search and the pattern lookup concurrently,
// waits for both, and renders the merged context. Knowledge passages come
// first (broad grounding), verified patterns second (specific precedent).
// A sub-search that fails or returns nothing simply contributes no section;
// when neither source has anything the assembled text is the empty string,
// never a block of empty headers.
func (a *ContextAssembler) Assemble(ctx context.Context, input AssembleInput) (*AssembledContext, error) {
	ctx, span := telemetry.StartSpan(ctx, "ContextAssembler.Assemble", telemetry.SpanAttributes{
		WorkspaceID: input.WorkspaceID,
		UserID:      input.UserID,
		Operation:   "assemble",
	})
	defer span.End()

	var (
		wg       sync.WaitGroup
		passages []*Passage
		patterns []*domain.Pattern
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		results, err := a.knowledge.Search(ctx, input.Query, input.WorkspaceID, defaultPassageLimit)
		if err != nil {
			log.Printf("context assembly: knowledge search failed, omitting section: %v", err)
			return
		}
		passages = results
	}()
	go func() {
		defer wg.Done()
		results, err := a.patterns.Find(ctx, input.UserID, input.ComponentType, defaultPatternLimit)
		if err != nil {
			log.Printf("context assembly: pattern lookup failed, omitting section: %v", err)
			return
		}
		patterns = results
	}()
	wg.Wait()

	relevant := make([]*Passage, 0, len(passages))
	for _, p := range passages {
		if p.Similarity > RelevanceFloor {
			relevant = append(relevant, p)
		}
	}

	return &AssembledContext{
		Text:     renderContext(relevant, patterns),
		Passages: relevant,
		Patterns: patterns,
	}, nil
}

func renderContext(passages []*Passage, patterns []*domain.Pattern) string {
	var b strings.Builder

	if len(passages) > 0 {
		b.WriteString("Relevant guidance from your knowledge base:\n")
		for _, p := range passages {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", p.DocumentCategory, p.DocumentTitle, p.Content)
		}
	}

	if len(patterns) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Verified copy patterns you have used before:\n")
		for i, p := range patterns {
			fmt.Fprintf(&b, "%d. %q", i+1, p.Text)
			if p.Context != "" {
				fmt.Fprintf(&b, " (%s)", p.Context)
			}
			if p.ABTestWinner {
				b.WriteString(" [A/B winner]")
			}
			if p.UXRValidated {
				b.WriteString(" [UXR validated]")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
