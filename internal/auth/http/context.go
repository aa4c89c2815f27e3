package http

import (
	"context"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
)

// clientKey is the private context key under which the authenticated client
// travels. An unexported struct type cannot collide with keys from other
// packages.
type clientKey struct{}

// WithClient returns a context carrying the authenticated client. The
// authentication middleware calls this once per request after the token
// resolves.
func WithClient(ctx context.Context, client *authDomain.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClient returns the authenticated client stored by WithClient, or
// (nil, false) when authentication never ran on this request.
func GetClient(ctx context.Context) (*authDomain.Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*authDomain.Client)
	return client, ok
}
