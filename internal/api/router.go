package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/compliee/compliee/internal/session"
)

// NewRouter creates a chi router with all API routes mounted. Session,
// view resolution, and the billing callback stay outside the workspace
// gate so a signed-out or unsubscribed caller can still reach them;
// everything touching documents sits behind RequireWorkspace.
// sseHandler, if non-nil, is mounted at GET /events inside the gate.
func NewRouter(h *Handler, ah *AttachmentHandler, gate *session.Gate, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AccessMiddleware(gate))

	// Access and billing surface.
	r.Get("/session", h.Session)
	r.Get("/views/{view}", h.ResolveView)
	r.Get("/billing/callback", h.BillingCallback)
	r.Post("/billing/callback", h.BillingCallback)

	// Document workspace.
	r.Group(func(r chi.Router) {
		r.Use(RequireWorkspace)

		r.Get("/documents", h.ListDocuments)
		r.Post("/documents", h.CreateDocument)
		r.Get("/documents/*", h.GetDocument)
		r.Put("/documents/*", h.SaveDocument)
		r.Delete("/documents/*", h.DeleteDocument)

		r.Post("/autosave", h.Autosave)
		r.Get("/search", h.Search)

		r.Post("/draft", h.Draft)
		r.Post("/refine", h.Refine)
		r.Post("/attachments", ah.Upload)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
