package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/copydesk/copydesk/internal/api"
	"github.com/copydesk/copydesk/internal/api/middleware"
	"github.com/copydesk/copydesk/internal/service"
)

type SearchService interface {
	Search(ctx context.Context, query, workspaceID string, limit int) ([]*service.Passage, error)
}

type SearchHandler struct {
	svc        SearchService
	workspaces WorkspaceGetter
}

func NewSearchHandler(svc SearchService, workspaces WorkspaceGetter) *SearchHandler {
	return &SearchHandler{svc: svc, workspaces: workspaces}
}

type SearchRequest struct {
	Query       string `json:"query"`
	WorkspaceID string `json:"workspace_id"`
	Limit       int    `json:"limit"`
}

type PassageResponse struct {
	ChunkID          string  `json:"chunk_id"`
	DocumentID       string  `json:"document_id"`
	DocumentTitle    string  `json:"document_title"`
	DocumentCategory string  `json:"document_category"`
	Content          string  `json:"content"`
	Similarity       float32 `json:"similarity"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.WorkspaceID == "" {
		api.Error(w, http.StatusBadRequest, "workspace_id is required")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}

	// Retrieval reads ancestor workspaces too, so the entry workspace must
	// belong to the caller before any knowledge leaves the store.
	if _, err := requireWorkspaceOwner(r.Context(), h.workspaces, req.WorkspaceID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	passages, err := h.svc.Search(r.Context(), req.Query, req.WorkspaceID, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*PassageResponse, 0, len(passages))
	for _, p := range passages {
		out = append(out, &PassageResponse{
			ChunkID:          p.ChunkID,
			DocumentID:       p.DocumentID,
			DocumentTitle:    p.DocumentTitle,
			DocumentCategory: string(p.DocumentCategory),
			Content:          p.Content,
			Similarity:       p.Similarity,
		})
	}
	api.Success(w, http.StatusOK, out)
}
