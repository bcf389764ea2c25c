package server

import (
	"net/http"

	"github.com/copydesk/copydesk/internal/api"
	"github.com/copydesk/copydesk/internal/api/handlers"
	"github.com/copydesk/copydesk/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	AuthValidator    middleware.AuthValidator
	WorkspaceHandler *handlers.WorkspaceHandler
	DocumentHandler  *handlers.DocumentHandler
	PatternHandler   *handlers.PatternHandler
	SearchHandler    *handlers.SearchHandler
	GenerateHandler  *handlers.GenerateHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.UserAuth(cfg.AuthValidator))

		r.Route("/workspaces", func(r chi.Router) {
			r.Post("/", cfg.WorkspaceHandler.Create)
			r.Get("/", cfg.WorkspaceHandler.List)
			r.Get("/{id}", cfg.WorkspaceHandler.Get)
			r.Post("/{id}/archive", cfg.WorkspaceHandler.Archive)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", cfg.DocumentHandler.Create)
			r.Get("/", cfg.DocumentHandler.List)
			r.Get("/{id}", cfg.DocumentHandler.Get)
			r.Put("/{id}", cfg.DocumentHandler.Update)
			r.Delete("/{id}", cfg.DocumentHandler.Deactivate)
		})

		r.Route("/patterns", func(r chi.Router) {
			r.Post("/", cfg.PatternHandler.Create)
			r.Get("/", cfg.PatternHandler.List)
			r.Get("/find", cfg.PatternHandler.Find)
			r.Get("/{id}", cfg.PatternHandler.Get)
			r.Post("/{id}/usage", cfg.PatternHandler.RecordUsage)
		})

		r.Post("/search", cfg.SearchHandler.Search)
		r.Post("/generate", cfg.GenerateHandler.Generate)
	})

	return r
}
