package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/copydesk/copydesk/internal/api"
	"github.com/copydesk/copydesk/internal/api/middleware"
	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/service"
)

type GenerationService interface {
	Generate(ctx context.Context, input service.GenerateInput) (*service.GenerateOutput, error)
}

type GenerateHandler struct {
	svc        GenerationService
	workspaces WorkspaceGetter
}

func NewGenerateHandler(svc GenerationService, workspaces WorkspaceGetter) *GenerateHandler {
	return &GenerateHandler{svc: svc, workspaces: workspaces}
}

type GenerateRequest struct {
	WorkspaceID   string `json:"workspace_id"`
	ComponentType string `json:"component_type"`
	Purpose       string `json:"purpose"`
}

type GenerateResponse struct {
	Text         string `json:"text"`
	ContextUsed  string `json:"context_used,omitempty"`
	PatternCount int    `json:"pattern_count"`
	PassageCount int    `json:"passage_count"`
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.WorkspaceID == "" {
		api.Error(w, http.StatusBadRequest, "workspace_id is required")
		return
	}
	if req.Purpose == "" {
		api.Error(w, http.StatusBadRequest, "purpose is required")
		return
	}

	componentType := domain.ComponentType(req.ComponentType)
	if !domain.IsValidComponentType(componentType) {
		api.Error(w, http.StatusBadRequest, "invalid component type")
		return
	}

	// Generation grounds the prompt in the workspace's knowledge, so the
	// same ownership rule as /search applies.
	if _, err := requireWorkspaceOwner(r.Context(), h.workspaces, req.WorkspaceID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	out, err := h.svc.Generate(r.Context(), service.GenerateInput{
		UserID:        userID,
		WorkspaceID:   req.WorkspaceID,
		ComponentType: componentType,
		Purpose:       req.Purpose,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, &GenerateResponse{
		Text:         out.Text,
		ContextUsed:  out.ContextUsed,
		PatternCount: out.PatternCount,
		PassageCount: out.PassageCount,
	})
}
