package service

import (
	"context"
	"errors"

	"github.com/copydesk/copydesk/internal/domain"
)

// maxHierarchyDepth caps ancestor resolution so a corrupted parent chain can
// never spin forever.
const maxHierarchyDepth = 32

// WorkspaceParentLookup resolves a workspace's parent id.
type WorkspaceParentLookup interface {
	GetParentID(ctx context.Context, workspaceID string) (string, error)
}

// HierarchyResolver walks workspace parent links to produce the ancestor
// chain used for knowledge inheritance.
type HierarchyResolver struct {
	workspaces WorkspaceParentLookup
}

// NewHierarchyResolver creates a new HierarchyResolver instance
func NewHierarchyResolver(workspaces WorkspaceParentLookup) *HierarchyResolver {
	return &HierarchyResolver{workspaces: workspaces}
}

// Ancestors returns the workspace chain starting with workspaceID itself,
// then its parent, and so on up to the root. The chain defines which
// workspaces' documents are visible to workspaceID: its own and all
// ancestors', never siblings' or descendants'. A parent that cannot be
// resolved terminates the chain rather than failing the lookup, and a
// visited set guards against parent cycles.
func (r *HierarchyResolver) Ancestors(ctx context.Context, workspaceID string) ([]string, error) {
	if workspaceID == "" {
		return nil, nil
	}

	chain := make([]string, 0, 4)
	visited := make(map[string]struct{})

	current := workspaceID
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		if _, seen := visited[current]; seen {
			break
		}
		visited[current] = struct{}{}
		chain = append(chain, current)

		parent, err := r.workspaces.GetParentID(ctx, current)
		if err != nil {
			if errors.Is(err, domain.ErrWorkspaceNotFound) {
				break
			}
			return nil, err
		}
		if parent == "" {
			break
		}
		current = parent
	}

	return chain, nil
}
