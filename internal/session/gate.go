package session

import "context"

// Decision is the outcome of an access check.
type Decision int

const (
	// Allow grants the workspace.
	Allow Decision = iota
	// RedirectLogin sends the caller to the login view.
	RedirectLogin
	// RedirectPricing sends a signed-in but unsubscribed caller to the
	// pricing view.
	RedirectPricing
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectPricing:
		return "redirect_pricing"
	default:
		return "unknown"
	}
}

// Access is the resolved access state of one request.
type Access struct {
	Username   string
	SignedIn   bool
	Subscribed bool
	Decision   Decision
}

// Decide maps the two access facts onto a decision. Sign-in is checked
// before subscription, so a signed-out subscriber still lands on login.
func Decide(signedIn, subscribed bool) Decision {
	switch {
	case !signedIn:
		return RedirectLogin
	case !subscribed:
		return RedirectPricing
	default:
		return Allow
	}
}

// Gate combines identity resolution and subscription lookup into a single
// per-request access check.
type Gate struct {
	ids  IdentityProvider
	subs *SubscriptionStore
}

// NewGate creates a gate over the given providers.
func NewGate(ids IdentityProvider, subs *SubscriptionStore) *Gate {
	return &Gate{ids: ids, subs: subs}
}

// Check resolves the caller's token into a full access context. Identity
// resolution errors degrade to signed-out rather than failing the request.
func (g *Gate) Check(ctx context.Context, token string) Access {
	id, err := g.ids.Resolve(ctx, token)
	if err != nil || id == nil {
		return Access{Decision: RedirectLogin}
	}
	subscribed := g.subs.Active(id.Username)
	return Access{
		Username:   id.Username,
		SignedIn:   true,
		Subscribed: subscribed,
		Decision:   Decide(true, subscribed),
	}
}
