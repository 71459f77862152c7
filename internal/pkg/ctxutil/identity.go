package ctxutil

import (
	"context"

	types "github.com/amacast/amacast-backend/internal/domain"
)

type identityKey struct{}

// WithIdentity attaches the verified identity for the current request.
func WithIdentity(ctx context.Context, id *types.VerifiedIdentity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// GetIdentity returns the verified identity, or nil for anonymous requests.
func GetIdentity(ctx context.Context) *types.VerifiedIdentity {
	val := ctx.Value(identityKey{})
	id, ok := val.(*types.VerifiedIdentity)
	if !ok {
		return nil
	}
	return id
}
