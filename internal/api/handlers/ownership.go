package handlers

import (
	"context"

	"github.com/copydesk/copydesk/internal/domain"
)

// WorkspaceGetter is the workspace lookup the tenant-scoped handlers use to
// verify ownership before acting.
type WorkspaceGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
}

// requireWorkspaceOwner loads a workspace and verifies the caller owns it.
// A foreign workspace reads as not found so ids cannot be enumerated across
// users.
func requireWorkspaceOwner(ctx context.Context, workspaces WorkspaceGetter, workspaceID, userID string) (*domain.Workspace, error) {
	ws, err := workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if ws.OwnerID != userID {
		return nil, domain.ErrWorkspaceNotFound
	}
	return ws, nil
}
