package domain

import (
	"fmt"
	"time"
)

// ComponentType represents the UI component a copy pattern applies to
type ComponentType string

const (
	ComponentTypeButton       ComponentType = "button"
	ComponentTypeError        ComponentType = "error"
	ComponentTypeEmptyState   ComponentType = "empty_state"
	ComponentTypeTooltip      ComponentType = "tooltip"
	ComponentTypeNotification ComponentType = "notification"
	ComponentTypeOnboarding   ComponentType = "onboarding"
	ComponentTypeFormLabel    ComponentType = "form_label"
	ComponentTypeConfirmation ComponentType = "confirmation"
)

// PatternSource represents the provenance of a copy pattern
type PatternSource string

const (
	PatternSourceManual     PatternSource = "manual"
	PatternSourceImported   PatternSource = "imported"
	PatternSourceSuggestion PatternSource = "suggestion"
	PatternSourceCodebase   PatternSource = "codebase"
)

// Pattern represents a previously used, optionally quality-validated piece of
// UX copy stored for reuse. Patterns are owned by a single user and never
// cross user boundaries in lookups. UsageCount and LastUsedAt are mutable
// counters incremented on each successful use.
type Pattern struct {
	ID             string
	UserID         string
	WorkspaceID    string // optional scoping to a workspace/project
	ComponentType  ComponentType
	Text           string
	Context        string // optional note on where/why the copy was used
	Source         PatternSource
	Approved       bool
	ABTestWinner   bool
	ConversionLift *float64 // percentage, set only for A/B-tested patterns
	UXRValidated   bool
	UsageCount     int64
	LastUsedAt     *time.Time
	CreatedAt      time.Time
}

// NewPattern creates a new Pattern instance
func NewPattern(id, userID string, componentType ComponentType, text string, source PatternSource, createdAt time.Time) *Pattern {
	return &Pattern{
		ID:            id,
		UserID:        userID,
		ComponentType: componentType,
		Text:          text,
		Source:        source,
		CreatedAt:     createdAt,
	}
}

// ValidatePattern validates a Pattern instance
func ValidatePattern(p *Pattern) error {
	if p == nil {
		return fmt.Errorf("pattern cannot be nil")
	}

	if p.ID == "" {
		return fmt.Errorf("pattern ID is required")
	}

	if p.UserID == "" {
		return fmt.Errorf("pattern UserID is required")
	}

	if p.Text == "" {
		return fmt.Errorf("pattern Text is required")
	}

	if !IsValidComponentType(p.ComponentType) {
		return fmt.Errorf("pattern ComponentType is invalid: %s", p.ComponentType)
	}

	if !isValidPatternSource(p.Source) {
		return fmt.Errorf("pattern Source is invalid: %s", p.Source)
	}

	if p.UsageCount < 0 {
		return fmt.Errorf("pattern UsageCount cannot be negative")
	}

	return nil
}

// IsValidComponentType checks if a ComponentType is valid
func IsValidComponentType(t ComponentType) bool {
	switch t {
	case ComponentTypeButton, ComponentTypeError, ComponentTypeEmptyState,
		ComponentTypeTooltip, ComponentTypeNotification, ComponentTypeOnboarding,
		ComponentTypeFormLabel, ComponentTypeConfirmation:
		return true
	}
	return false
}

// isValidPatternSource checks if a PatternSource is valid
func isValidPatternSource(s PatternSource) bool {
	switch s {
	case PatternSourceManual, PatternSourceImported,
		PatternSourceSuggestion, PatternSourceCodebase:
		return true
	}
	return false
}
