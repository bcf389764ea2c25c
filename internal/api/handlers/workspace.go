package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/copydesk/copydesk/internal/api"
	"github.com/copydesk/copydesk/internal/api/middleware"
	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/service"
	"github.com/go-chi/chi/v5"
)

type WorkspaceService interface {
	Create(ctx context.Context, input service.CreateWorkspaceInput) (*domain.Workspace, error)
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Workspace, error)
	Archive(ctx context.Context, id string) error
}

type WorkspaceHandler struct {
	svc WorkspaceService
}

func NewWorkspaceHandler(svc WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc}
}

type CreateWorkspaceRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

type WorkspaceResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
	ParentID  string `json:"parent_id,omitempty"`
	Archived  bool   `json:"archived"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func workspaceToResponse(w *domain.Workspace) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Name:      w.Name,
		ParentID:  w.ParentID,
		Archived:  w.Archived,
		CreatedAt: w.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: w.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	workspace, err := h.svc.Create(r.Context(), service.CreateWorkspaceInput{
		OwnerID:  userID,
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, workspaceToResponse(workspace))
}

func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	workspace, err := requireWorkspaceOwner(r.Context(), h.svc, id, userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, workspaceToResponse(workspace))
}

func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	workspaces, err := h.svc.ListByOwner(r.Context(), userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*WorkspaceResponse, 0, len(workspaces))
	for _, ws := range workspaces {
		out = append(out, workspaceToResponse(ws))
	}
	api.Success(w, http.StatusOK, out)
}

func (h *WorkspaceHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	if _, err := requireWorkspaceOwner(r.Context(), h.svc, id, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.svc.Archive(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"status": "archived"})
}
