package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Route("/tables/{table}", func(r chi.Router) {
				r.Get("/rows", h.ListRows)
				r.Post("/rows", h.CreateRow)
				r.Delete("/rows/{id}", h.DeleteRow)
				r.Post("/rows/{id}/edit", h.StartEdit)
				r.Patch("/edit", h.UpdateEdit)
				r.Post("/edit/commit", h.CommitEdit)
				r.Post("/edit/cancel", h.CancelEdit)
				r.Get("/dashboard", h.Dashboard)
				r.Get("/export", h.Export)
			})

			r.Route("/chat", func(r chi.Router) {
				r.Get("/models", h.Models)
				r.Post("/completions", h.Completions)
				r.Get("/knowledge", h.Knowledge)
				r.Get("/settings", h.GetChatSettings)
				r.Put("/settings", h.PutChatSettings)
				r.Get("/files", h.GetChatFiles)
				r.Post("/files", h.UploadChatFile)
				r.Get("/collections", h.GetChatCollections)
				r.Put("/collections", h.PutChatCollections)
			})
			r.Get("/chats", h.GetChats)
			r.Put("/chats", h.PutChats)

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", h.ListDocuments)
				r.Get("/types", h.DocumentTypes)
				r.Post("/upload", h.UploadDocument)
				r.Route("/collections", func(r chi.Router) {
					r.Get("/", h.ListDocumentCollections)
					r.Post("/", h.CreateDocumentCollection)
					r.Patch("/{id}", h.UpdateDocumentCollection)
					r.Delete("/{id}", h.DeleteDocumentCollection)
				})
				r.Get("/{id}", h.GetDocument)
				r.Delete("/{id}", h.DeleteDocument)
				r.Post("/{id}/preprocess", h.PreprocessDocument)
			})
		})
	})

	return r
}
