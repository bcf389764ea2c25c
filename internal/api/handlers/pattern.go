package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/copydesk/copydesk/internal/api"
	"github.com/copydesk/copydesk/internal/api/middleware"
	"github.com/copydesk/copydesk/internal/domain"
	"github.com/copydesk/copydesk/internal/service"
	"github.com/go-chi/chi/v5"
)

type PatternService interface {
	Create(ctx context.Context, input service.CreatePatternInput) (*domain.Pattern, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Pattern, error)
	Find(ctx context.Context, userID string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error)
	SearchText(ctx context.Context, userID, query string, componentType domain.ComponentType, limit int) ([]*domain.Pattern, error)
	ListByUser(ctx context.Context, userID, cursor string, limit int) (*service.PatternPageResult, error)
	RecordUsage(ctx context.Context, patternID string)
}

type PatternHandler struct {
	svc PatternService
}

func NewPatternHandler(svc PatternService) *PatternHandler {
	return &PatternHandler{svc: svc}
}

type CreatePatternRequest struct {
	WorkspaceID    string   `json:"workspace_id"`
	ComponentType  string   `json:"component_type"`
	Text           string   `json:"text"`
	Context        string   `json:"context"`
	Source         string   `json:"source"`
	Approved       bool     `json:"approved"`
	ABTestWinner   bool     `json:"ab_test_winner"`
	ConversionLift *float64 `json:"conversion_lift"`
	UXRValidated   bool     `json:"uxr_validated"`
}

type PatternResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	ComponentType  string   `json:"component_type"`
	Text           string   `json:"text"`
	Context        string   `json:"context,omitempty"`
	Source         string   `json:"source"`
	Approved       bool     `json:"approved"`
	ABTestWinner   bool     `json:"ab_test_winner"`
	ConversionLift *float64 `json:"conversion_lift,omitempty"`
	UXRValidated   bool     `json:"uxr_validated"`
	UsageCount     int64    `json:"usage_count"`
	LastUsedAt     string   `json:"last_used_at,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

type PatternListResponse struct {
	Items   []*PatternResponse `json:"items"`
	Cursor  string             `json:"cursor,omitempty"`
	HasMore bool               `json:"has_more"`
}

func patternToResponse(p *domain.Pattern) *PatternResponse {
	resp := &PatternResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		ComponentType:  string(p.ComponentType),
		Text:           p.Text,
		Context:        p.Context,
		Source:         string(p.Source),
		Approved:       p.Approved,
		ABTestWinner:   p.ABTestWinner,
		ConversionLift: p.ConversionLift,
		UXRValidated:   p.UXRValidated,
		UsageCount:     p.UsageCount,
		CreatedAt:      p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.LastUsedAt != nil {
		resp.LastUsedAt = p.LastUsedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

func (h *PatternHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreatePatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Text == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	componentType := domain.ComponentType(req.ComponentType)
	if !domain.IsValidComponentType(componentType) {
		api.Error(w, http.StatusBadRequest, "invalid component type")
		return
	}

	pattern, err := h.svc.Create(r.Context(), service.CreatePatternInput{
		UserID:         userID,
		WorkspaceID:    req.WorkspaceID,
		ComponentType:  componentType,
		Text:           req.Text,
		Context:        req.Context,
		Source:         domain.PatternSource(req.Source),
		Approved:       req.Approved,
		ABTestWinner:   req.ABTestWinner,
		ConversionLift: req.ConversionLift,
		UXRValidated:   req.UXRValidated,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, patternToResponse(pattern))
}

func (h *PatternHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	pattern, err := h.svc.GetByID(r.Context(), userID, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, patternToResponse(pattern))
}

func (h *PatternHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := parseLimit(r, 20)

	// Text search takes precedence when q is present; otherwise a plain
	// cursor listing of the user's patterns.
	if q := r.URL.Query().Get("q"); q != "" {
		componentType := domain.ComponentType(r.URL.Query().Get("component_type"))
		if componentType != "" && !domain.IsValidComponentType(componentType) {
			api.Error(w, http.StatusBadRequest, "invalid component type")
			return
		}

		patterns, err := h.svc.SearchText(r.Context(), userID, q, componentType, limit)
		if err != nil {
			api.HandleError(w, err)
			return
		}

		out := make([]*PatternResponse, 0, len(patterns))
		for _, p := range patterns {
			out = append(out, patternToResponse(p))
		}
		api.Success(w, http.StatusOK, &PatternListResponse{Items: out})
		return
	}

	page, err := h.svc.ListByUser(r.Context(), userID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := &PatternListResponse{
		Items:   make([]*PatternResponse, 0, len(page.Items)),
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	}
	for _, p := range page.Items {
		resp.Items = append(resp.Items, patternToResponse(p))
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *PatternHandler) Find(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	componentType := domain.ComponentType(r.URL.Query().Get("component_type"))
	if !domain.IsValidComponentType(componentType) {
		api.Error(w, http.StatusBadRequest, "invalid component type")
		return
	}

	patterns, err := h.svc.Find(r.Context(), userID, componentType, parseLimit(r, 5))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*PatternResponse, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, patternToResponse(p))
	}
	api.Success(w, http.StatusOK, out)
}

func (h *PatternHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	// Ownership check before the fire-and-forget increment.
	if _, err := h.svc.GetByID(r.Context(), userID, id); err != nil {
		api.HandleError(w, err)
		return
	}

	h.svc.RecordUsage(r.Context(), id)
	api.Success(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
