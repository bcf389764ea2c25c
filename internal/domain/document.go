package domain

import (
	"fmt"
	"time"
)

// DocumentCategory represents the category of a knowledge document
type DocumentCategory string

const (
	DocumentCategoryStyleGuide  DocumentCategory = "style_guide"
	DocumentCategoryVoiceTone   DocumentCategory = "voice_tone"
	DocumentCategoryTerminology DocumentCategory = "terminology"
	DocumentCategoryResearch    DocumentCategory = "research"
	DocumentCategoryExamples    DocumentCategory = "examples"
)

// Document represents a knowledge document attached to a workspace. Documents
// are deactivated rather than deleted so that history is preserved; whenever
// content changes the document's chunks are regenerated in full.
type Document struct {
	ID          string
	WorkspaceID string
	Category    DocumentCategory
	Title       string
	Content     string
	Active      bool
	ChunkCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDocument creates a new Document instance
func NewDocument(id, workspaceID string, category DocumentCategory, title, content string, createdAt time.Time) *Document {
	return &Document{
		ID:          id,
		WorkspaceID: workspaceID,
		Category:    category,
		Title:       title,
		Content:     content,
		Active:      true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// ValidateDocument validates a Document instance
func ValidateDocument(d *Document) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	if d.WorkspaceID == "" {
		return fmt.Errorf("document WorkspaceID is required")
	}

	if d.Title == "" {
		return fmt.Errorf("document Title is required")
	}

	if d.Content == "" {
		return fmt.Errorf("document Content is required")
	}

	if !IsValidDocumentCategory(d.Category) {
		return fmt.Errorf("document Category is invalid: %s", d.Category)
	}

	return nil
}

// IsValidDocumentCategory checks if a DocumentCategory is valid
func IsValidDocumentCategory(c DocumentCategory) bool {
	switch c {
	case DocumentCategoryStyleGuide, DocumentCategoryVoiceTone,
		DocumentCategoryTerminology, DocumentCategoryResearch,
		DocumentCategoryExamples:
		return true
	}
	return false
}
