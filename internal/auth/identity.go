// Package auth carries the authenticated identity through a request and
// decides which mutations that identity may perform.
package auth

import "context"

// Identity is derived from a verified token and lives for one request.
type Identity struct {
	UserID string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
