package service

import (
	"context"
	"fmt"

	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/llm"
	"github.com/copydesk/copydesk/internal/telemetry"
)

// systemPrompt is the role/persona prelude for every generation request.
const systemPrompt = `You are a senior UX writer. You produce concise, ` +
	`action-oriented microcopy that matches the team's voice and terminology. ` +
	`Ground your suggestions in the provided workspace guidance and verified ` +
	`patterns when present. Offer up to three variants.`

// UsageRecorder records a successful pattern use, fire-and-forget.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, patternID string)
}

// Assembler prepares the retrieval context for a generation request.
type Assembler interface {
	Assemble(ctx context.Context, input AssembleInput) (*AssembledContext, error)
}

// GenerateInput represents input for a microcopy generation request
type GenerateInput struct {
	UserID        string
	WorkspaceID   string
	ComponentType domain.ComponentType
	Purpose       string // free-text description of what the copy must say
}

// GenerateOutput represents output from a generation request
type GenerateOutput struct {
	Text         string
	ContextUsed  string
	PatternCount int
	PassageCount int
}

// GenerationService orchestrates a single generation request: assemble
// retrieval context, call the completion service, then attribute pattern
// usage. Usage counters are only touched after the completion succeeds so a
// timed-out or failed request never records phantom uses.
type GenerationService struct {
	assembler Assembler
	completer llm.CompletionClient
	usage     UsageRecorder
}

// NewGenerationService creates a new GenerationService instance
func NewGenerationService(assembler Assembler, completer llm.CompletionClient, usage UsageRecorder) *GenerationService {
	return &GenerationService{
		assembler: assembler,
		completer: completer,
		usage:     usage,
	}
}

// Generate produces microcopy for the given component and purpose. Missing
// retrieval context is not an error: the request proceeds ungrounded and the
// degraded quality is accepted silently.
func (s *GenerationService) Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "GenerationService.Generate", telemetry.SpanAttributes{
		WorkspaceID: input.WorkspaceID,
		UserID:      input.UserID,
		Operation:   "generate",
	})
	defer span.End()

	if input.Purpose == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "purpose is required")
	}
	if !domain.IsValidComponentType(input.ComponentType) {
		return nil, domain.ErrInvalidComponentType
	}

	assembled, err := s.assembler.Assemble(ctx, AssembleInput{
		Query:         input.Purpose,
		WorkspaceID:   input.WorkspaceID,
		UserID:        input.UserID,
		ComponentType: input.ComponentType,
	})
	if err != nil {
		// Assembly is best-effort; generate ungrounded instead of failing.
		assembled = &AssembledContext{}
	}

	userPrompt := fmt.Sprintf("Component type: %s\nPurpose: %s", input.ComponentType, input.Purpose)
	if assembled.Text != "" {
		userPrompt += "\n\n" + assembled.Text
	}

	text, err := s.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	})
	if err != nil {
		return nil, err
	}

	// The completion succeeded; only now do the injected patterns count as
	// used. Failures inside RecordUsage are logged by the recorder and never
	// surface here.
	usageCtx := context.WithoutCancel(ctx)
	for _, p := range assembled.Patterns {
		s.usage.RecordUsage(usageCtx, p.ID)
	}

	return &GenerateOutput{
		Text:         text,
		ContextUsed:  assembled.Text,
		PatternCount: len(assembled.Patterns),
		PassageCount: len(assembled.Passages),
	}, nil
}
