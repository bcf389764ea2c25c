package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/copydesk/copydesk/internal/api"
	"github.com/copydesk/copydesk/internal/api/middleware"
	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/service"
	"github.com/go-chi/chi/v5"
)

type DocumentService interface {
	Create(ctx context.Context, input service.CreateDocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	Update(ctx context.Context, input service.UpdateDocumentInput) (*domain.Document, error)
	Deactivate(ctx context.Context, id string) error
	ListByWorkspace(ctx context.Context, workspaceID, cursor string, limit int) (*service.DocumentPageResult, error)
}

type DocumentHandler struct {
	svc        DocumentService
	workspaces WorkspaceGetter
}

func NewDocumentHandler(svc DocumentService, workspaces WorkspaceGetter) *DocumentHandler {
	return &DocumentHandler{svc: svc, workspaces: workspaces}
}

// ownsDocumentWorkspace verifies the caller owns the workspace holding the
// document. A foreign document reads as a missing document, not a missing
// workspace.
func (h *DocumentHandler) ownsDocumentWorkspace(r *http.Request, workspaceID, userID string) error {
	if _, err := requireWorkspaceOwner(r.Context(), h.workspaces, workspaceID, userID); err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return domain.ErrDocumentNotFound
		}
		return err
	}
	return nil
}

type CreateDocumentRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Content     string `json:"content"`
}

type UpdateDocumentRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type DocumentResponse struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Active      bool   `json:"active"`
	ChunkCount  int    `json:"chunk_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type DocumentListResponse struct {
	Items   []*DocumentResponse `json:"items"`
	Cursor  string              `json:"cursor,omitempty"`
	HasMore bool                `json:"has_more"`
}

func documentToResponse(d *domain.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:          d.ID,
		WorkspaceID: d.WorkspaceID,
		Category:    string(d.Category),
		Title:       d.Title,
		Content:     d.Content,
		Active:      d.Active,
		ChunkCount:  d.ChunkCount,
		CreatedAt:   d.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   d.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.WorkspaceID == "" {
		api.Error(w, http.StatusBadRequest, "workspace_id is required")
		return
	}
	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	category := domain.DocumentCategory(req.Category)
	if !domain.IsValidDocumentCategory(category) {
		api.Error(w, http.StatusBadRequest, "invalid document category")
		return
	}

	if _, err := requireWorkspaceOwner(r.Context(), h.workspaces, req.WorkspaceID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	doc, err := h.svc.Create(r.Context(), service.CreateDocumentInput{
		WorkspaceID: req.WorkspaceID,
		Category:    category,
		Title:       req.Title,
		Content:     req.Content,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, documentToResponse(doc))
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	doc, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if err := h.ownsDocumentWorkspace(r, doc.WorkspaceID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, documentToResponse(doc))
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	var req UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if err := h.ownsDocumentWorkspace(r, existing.WorkspaceID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	doc, err := h.svc.Update(r.Context(), service.UpdateDocumentInput{
		DocumentID: id,
		Title:      req.Title,
		Content:    req.Content,
		Category:   domain.DocumentCategory(req.Category),
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, documentToResponse(doc))
}

func (h *DocumentHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	existing, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if err := h.ownsDocumentWorkspace(r, existing.WorkspaceID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		api.Error(w, http.StatusBadRequest, "workspace_id is required")
		return
	}

	if _, err := requireWorkspaceOwner(r.Context(), h.workspaces, workspaceID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	page, err := h.svc.ListByWorkspace(r.Context(), workspaceID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := &DocumentListResponse{
		Items:   make([]*DocumentResponse, 0, len(page.Items)),
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	}
	for _, d := range page.Items {
		resp.Items = append(resp.Items, documentToResponse(d))
	}
	api.Success(w, http.StatusOK, resp)
}
