// Package api implements the Compliee REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/compliee/compliee/internal/nav"
	"github.com/compliee/compliee/internal/session"
)

type ctxKey int

const accessKey ctxKey = iota

// AccessMiddleware resolves the caller's bearer token into a full access
// context and attaches it to the request. It never rejects; the gate
// decision is enforced downstream so that open endpoints (session, billing)
// still see who is calling.
func AccessMiddleware(gate *session.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			access := gate.Check(r.Context(), token)
			ctx := context.WithValue(r.Context(), accessKey, access)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireWorkspace enforces the gate decision on workspace endpoints. A
// signed-out caller gets 401 pointing at the login view; a signed-in caller
// without a subscription gets 402 pointing at pricing. The guarded handler
// never runs on a redirect, so gated mutations leave no trace.
func RequireWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access := accessFrom(r.Context())
		switch access.Decision {
		case session.RedirectLogin:
			writeJSON(w, http.StatusUnauthorized, redirectBody("sign in required", string(nav.ViewLogin)))
		case session.RedirectPricing:
			writeJSON(w, http.StatusPaymentRequired, redirectBody("subscription required", string(nav.ViewPricing)))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// accessFrom returns the access context attached by AccessMiddleware. A
// request that skipped the middleware reads as signed out.
func accessFrom(ctx context.Context) session.Access {
	if a, ok := ctx.Value(accessKey).(session.Access); ok {
		return a
	}
	return session.Access{Decision: session.RedirectLogin}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
