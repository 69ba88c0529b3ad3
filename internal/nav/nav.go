// Package nav models the workspace's view routing: which screen a request
// lands on once the access gate has spoken.
package nav

import (
	"sync"

	"github.com/compliee/compliee/internal/session"
)

// View is one of the product screens.
type View string

const (
	ViewLanding  View = "landing"
	ViewLibrary  View = "library"
	ViewEditor   View = "editor"
	ViewLogin    View = "login"
	ViewPricing  View = "pricing"
	ViewFeatures View = "features"
	ViewHelp     View = "help"
	ViewPrivacy  View = "privacy"
	ViewTerms    View = "terms"
	ViewSecurity View = "security"
)

// Valid reports whether v names a known view.
func Valid(v View) bool {
	switch v {
	case ViewLanding, ViewLibrary, ViewEditor, ViewLogin, ViewPricing,
		ViewFeatures, ViewHelp, ViewPrivacy, ViewTerms, ViewSecurity:
		return true
	}
	return false
}

// Protected reports whether v requires workspace access. Only the document
// screens are gated; marketing and legal pages are open to everyone.
func Protected(v View) bool {
	return v == ViewLibrary || v == ViewEditor
}

// Parse maps a raw string onto a view. Anything unknown lands on the
// landing page.
func Parse(s string) View {
	if v := View(s); Valid(v) {
		return v
	}
	return ViewLanding
}

// Resolve applies the access decision to a requested view. A redirect
// decision overrides a protected destination; public views pass through
// untouched.
func Resolve(requested View, d session.Decision) View {
	if !Protected(requested) {
		return requested
	}
	switch d {
	case session.RedirectLogin:
		return ViewLogin
	case session.RedirectPricing:
		return ViewPricing
	default:
		return requested
	}
}

// Hook runs after a completed navigation.
type Hook func(from, to View)

// Router tracks the current view and notifies hooks on transitions. Hooks
// let other components react to leaving a view, like flushing pending
// autosaves when the editor closes.
type Router struct {
	mu      sync.Mutex
	current View
	hooks   []Hook
}

// NewRouter creates a router positioned on the landing view.
func NewRouter() *Router {
	return &Router{current: ViewLanding}
}

// OnNavigate registers a hook. Hooks run in registration order, only on
// actual view changes.
func (r *Router) OnNavigate(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Navigate resolves the requested view against the access decision, moves
// there, and returns the view actually landed on.
func (r *Router) Navigate(requested View, d session.Decision) View {
	to := Resolve(requested, d)

	r.mu.Lock()
	from := r.current
	if from == to {
		r.mu.Unlock()
		return to
	}
	r.current = to
	hooks := append([]Hook(nil), r.hooks...)
	r.mu.Unlock()

	for _, h := range hooks {
		h(from, to)
	}
	return to
}

// Current returns the view the router is on.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
