package dataaccess

import (
	"context"
	"strings"

	"github.com/aretw0/memodesk/pkg/core"
)

// Identity is the signed-in user.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// IdentityProvider returns the current session identity.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (Identity, error)
}

// IdentityFunc adapts a function to IdentityProvider.
type IdentityFunc func(ctx context.Context) (Identity, error)

func (f IdentityFunc) CurrentIdentity(ctx context.Context) (Identity, error) {
	return f(ctx)
}

// Static always returns the same identity. An empty ID means signed out.
type Static Identity

func (s Static) CurrentIdentity(context.Context) (Identity, error) {
	if strings.TrimSpace(s.ID) == "" {
		return Identity{}, core.ErrNotAuthenticated
	}
	return Identity(s), nil
}

type identityKey struct{}

// WithIdentity attaches id to ctx, e.g. from a request header.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.ID != ""
}

// ContextProvider reads the identity from the context, then asks Fallback.
type ContextProvider struct {
	Fallback IdentityProvider
}

func (p ContextProvider) CurrentIdentity(ctx context.Context) (Identity, error) {
	if id, ok := FromContext(ctx); ok {
		return id, nil
	}
	if p.Fallback != nil {
		return p.Fallback.CurrentIdentity(ctx)
	}
	return Identity{}, core.ErrNotAuthenticated
}
