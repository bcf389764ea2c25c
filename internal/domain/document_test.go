package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *Document {
	return NewDocument("doc-1", "ws-1", DocumentCategoryStyleGuide,
		"Global Voice", "Our voice is direct and human.", time.Now().UTC())
}

func TestValidateDocument(t *testing.T) {
	require.NoError(t, ValidateDocument(validDocument()))
}

func TestValidateDocument_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
	}{
		{"missing id", func(d *Document) { d.ID = "" }},
		{"missing workspace", func(d *Document) { d.WorkspaceID = "" }},
		{"missing title", func(d *Document) { d.Title = "" }},
		{"missing content", func(d *Document) { d.Content = "" }},
		{"bad category", func(d *Document) { d.Category = "grimoire" }},
	}

	assert.Error(t, ValidateDocument(nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDocument()
			tt.mutate(d)
			assert.Error(t, ValidateDocument(d))
		})
	}
}

func TestIsValidDocumentCategory(t *testing.T) {
	valid := []DocumentCategory{
		DocumentCategoryStyleGuide, DocumentCategoryVoiceTone,
		DocumentCategoryTerminology, DocumentCategoryResearch,
		DocumentCategoryExamples,
	}
	for _, c := range valid {
		assert.True(t, IsValidDocumentCategory(c), string(c))
	}

	assert.False(t, IsValidDocumentCategory(""))
	assert.False(t, IsValidDocumentCategory("grimoire"))
}

func TestNewDocument_StartsActive(t *testing.T) {
	d := validDocument()

	assert.True(t, d.Active)
	assert.Zero(t, d.ChunkCount)
	assert.Equal(t, d.CreatedAt, d.UpdatedAt)
}
