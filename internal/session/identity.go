// Package session resolves who is calling and whether their subscription
// entitles them to the workspace.
package session

import (
	"context"
	"time"
)

// Identity modes.
const (
	ModeDisabled = "disabled"
	ModeToken    = "token"
)

// readinessWait bounds how long a resolve waits for the identity backend to
// come up before degrading to signed-out.
const readinessWait = 2 * time.Second

// Identity is a resolved signed-in user.
type Identity struct {
	Username string
}

// IdentityProvider maps a bearer token to an identity. A nil identity with a
// nil error means the caller is signed out.
type IdentityProvider interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// DisabledProvider signs every caller in as a fixed user. Used in
// single-user and development deployments.
type DisabledProvider struct {
	Username string
}

func (p *DisabledProvider) Resolve(_ context.Context, _ string) (*Identity, error) {
	return &Identity{Username: p.Username}, nil
}

// TokenProvider resolves bearer tokens against a static token → username
// table. The table may be populated after startup (loaded from a remote
// directory, say), so resolves briefly wait for readiness. A provider that
// never becomes ready degrades every caller to signed-out instead of
// blocking or failing requests.
type TokenProvider struct {
	tokens map[string]string
	ready  chan struct{}
}

// NewTokenProvider creates a provider that is ready immediately with the
// given token table.
func NewTokenProvider(tokens map[string]string) *TokenProvider {
	p := NewPendingTokenProvider()
	p.SetTokens(tokens)
	return p
}

// NewPendingTokenProvider creates a provider whose token table arrives
// later via SetTokens.
func NewPendingTokenProvider() *TokenProvider {
	return &TokenProvider{ready: make(chan struct{})}
}

// SetTokens installs the token table and marks the provider ready. It must
// be called at most once.
func (p *TokenProvider) SetTokens(tokens map[string]string) {
	p.tokens = tokens
	close(p.ready)
}

// Resolve waits (bounded) for readiness, then looks the token up. Unknown
// or empty tokens resolve to signed-out, not to an error.
func (p *TokenProvider) Resolve(ctx context.Context, token string) (*Identity, error) {
	select {
	case <-p.ready:
	case <-time.After(readinessWait):
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if token == "" {
		return nil, nil
	}
	username, ok := p.tokens[token]
	if !ok {
		return nil, nil
	}
	return &Identity{Username: username}, nil
}
