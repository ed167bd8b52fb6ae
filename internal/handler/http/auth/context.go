// Package auth provides the HTTP side of authentication: bearer token
// middleware, the identity carried in the request context, and the
// register, login, logout and me endpoints.
package auth

import (
	"context"

	authsvc "blog-summary/internal/service/auth"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id authsvc.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// IdentityFromContext returns the identity stored by the Authenticator.
func IdentityFromContext(ctx context.Context) (authsvc.Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(authsvc.Identity)
	return id, ok
}
