package domain

import (
	"fmt"
	"time"
)

// Workspace is a named knowledge container. Workspaces form a tree via
// ParentID (company -> division -> product); a child workspace inherits the
// knowledge documents of every ancestor in its chain.
type Workspace struct {
	ID        string
	OwnerID   string
	Name      string
	ParentID  string // empty for root workspaces
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWorkspace creates a new Workspace instance
func NewWorkspace(id, ownerID, name, parentID string, createdAt time.Time) *Workspace {
	return &Workspace{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		ParentID:  parentID,
		Archived:  false,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// ValidateWorkspace validates a Workspace instance
func ValidateWorkspace(w *Workspace) error {
	if w == nil {
		return fmt.Errorf("workspace cannot be nil")
	}

	if w.ID == "" {
		return fmt.Errorf("workspace ID is required")
	}

	if w.OwnerID == "" {
		return fmt.Errorf("workspace OwnerID is required")
	}

	if w.Name == "" {
		return fmt.Errorf("workspace Name is required")
	}

	if w.ParentID == w.ID {
		return fmt.Errorf("workspace cannot be its own parent")
	}

	return nil
}
