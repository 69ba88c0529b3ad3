package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/compliee/compliee/internal/ai"
	"github.com/compliee/compliee/internal/apperr"
	"github.com/compliee/compliee/internal/autosave"
	"github.com/compliee/compliee/internal/library"
	"github.com/compliee/compliee/internal/nav"
	"github.com/compliee/compliee/internal/session"
)

// Notifier publishes a document change event. kind is one of "created",
// "updated", "deleted".
type Notifier func(kind, path string)

// Handler holds API route handlers.
type Handler struct {
	svc     *library.Service
	drafter *ai.Drafter
	saver   *autosave.Scheduler
	subs    *session.SubscriptionStore
	attach  *AttachmentHandler
	views   *nav.Router
	notify  Notifier
}

// NewHandler creates a new Handler. drafter may be nil when no AI provider
// is configured; draft endpoints then answer 503. views may be nil; view
// resolution then stays stateless. notify may be nil.
func NewHandler(svc *library.Service, drafter *ai.Drafter, saver *autosave.Scheduler, subs *session.SubscriptionStore, attach *AttachmentHandler, views *nav.Router, notify Notifier) *Handler {
	if notify == nil {
		notify = func(string, string) {}
	}
	return &Handler{svc: svc, drafter: drafter, saver: saver, subs: subs, attach: attach, views: views, notify: notify}
}

// docPath extracts the document path from the URL (everything after
// /documents/). Supports encoded slashes from generated clients.
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListDocuments handles GET /documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("list documents failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: items, Total: len(items)})
}

// CreateDocument handles POST /documents.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	doc, err := h.svc.Create(r.Context(), req.Title, req.Color, accessFrom(r.Context()).Username)
	if err != nil {
		slog.Error("create document failed", slog.String("title", req.Title), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	h.notify("created", doc.Path)
	writeJSON(w, http.StatusCreated, doc)
}

// GetDocument handles GET /documents/*.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.Load(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get document failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// SaveDocument handles PUT /documents/*.
func (h *Handler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	var req SaveDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	doc, err := h.svc.Save(r.Context(), path, req.Title, req.Color, req.Body)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("save document failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.notify("updated", doc.Path)
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /documents/*.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.Delete(r.Context(), path); err != nil {
		slog.Error("delete document failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.notify("deleted", path)
	w.WriteHeader(http.StatusNoContent)
}

// Autosave handles POST /autosave: a debounced save request from the editor.
// The write happens after the quiet period, so the response only acknowledges
// scheduling.
func (h *Handler) Autosave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req AutosaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	h.saver.Schedule(req.Path, req.Title, req.Color, req.Body)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	out := make([]SearchResult, len(results))
	for i, res := range results {
		out[i] = SearchResult{Path: res.Path, Title: res.Title, Snippet: res.Snippet}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

// Draft handles POST /draft.
func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	if h.drafter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("ai drafting is not configured"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	var documentHTML string
	if req.DocumentPath != "" {
		doc, err := h.svc.Load(r.Context(), req.DocumentPath)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			slog.Error("draft context load failed", slog.String("path", req.DocumentPath), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		if doc != nil {
			documentHTML = doc.Body
		}
	}

	var att *ai.Attachment
	if req.Attachment != "" {
		text, err := h.attach.Text(req.Attachment)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		att = &ai.Attachment{Name: req.Attachment, Content: text}
	}

	content, err := h.drafter.Draft(r.Context(), req.Instruction, documentHTML, att)
	if err != nil {
		slog.Error("draft failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorBody("ai provider unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, DraftResponse{Content: content})
}

// Refine handles POST /refine.
func (h *Handler) Refine(w http.ResponseWriter, r *http.Request) {
	if h.drafter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("ai drafting is not configured"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	content, err := h.drafter.Refine(r.Context(), req.Selection, req.Instruction)
	if err != nil {
		slog.Error("refine failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorBody("ai provider unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, DraftResponse{Content: content})
}

// Session handles GET /session. Open to everyone; reports the caller's
// resolved access state and the view they would land on.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	access := accessFrom(r.Context())
	view := nav.Resolve(nav.ViewLibrary, access.Decision)
	writeJSON(w, http.StatusOK, SessionResponse{
		Username:   access.Username,
		SignedIn:   access.SignedIn,
		Subscribed: access.Subscribed,
		View:       string(view),
	})
}

// ResolveView handles GET /views/{view}: where would this caller land if
// they asked for the named view.
func (h *Handler) ResolveView(w http.ResponseWriter, r *http.Request) {
	requested := nav.Parse(chi.URLParam(r, "view"))
	access := accessFrom(r.Context())
	var resolved nav.View
	if h.views != nil {
		resolved = h.views.Navigate(requested, access.Decision)
	} else {
		resolved = nav.Resolve(requested, access.Decision)
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"requested": string(requested),
		"resolved":  string(resolved),
	})
}

// BillingCallback handles the payment provider's return redirect
// (/billing/callback?success=true). Only a successful callback for a
// signed-in caller activates the subscription.
func (h *Handler) BillingCallback(w http.ResponseWriter, r *http.Request) {
	access := accessFrom(r.Context())
	if !access.SignedIn {
		writeJSON(w, http.StatusUnauthorized, redirectBody("sign in required", string(nav.ViewLogin)))
		return
	}
	if r.URL.Query().Get("success") != "true" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled", "view": string(nav.ViewPricing)})
		return
	}
	if err := h.subs.Activate(access.Username); err != nil {
		slog.Error("subscription activate failed", slog.String("user", access.Username), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "active", "view": string(nav.ViewLibrary)})
}
