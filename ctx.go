package auth

import (
	"context"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithRequestIdentity sets the verified identity in the given context
func WithRequestIdentity(ctx context.Context, identity *RequestIdentity) context.Context {
	if identity == nil {
		return ctx
	}
	return context.WithValue(ctx, identityCtxKey, *identity)
}

// RequestIdentityFromContext finds the verified identity in the context
func RequestIdentityFromContext(ctx context.Context) (RequestIdentity, bool) {
	if ctx == nil {
		return RequestIdentity{}, false
	}
	raw, ok := ctx.Value(identityCtxKey).(RequestIdentity)
	if !ok || raw.SubjectID == "" {
		return RequestIdentity{}, false
	}
	return raw, true
}

// SubjectFromContext returns the verified subject id
func SubjectFromContext(ctx context.Context) (string, bool) {
	identity, ok := RequestIdentityFromContext(ctx)
	return identity.SubjectID, ok
}

// IdentityFromRouter reads the identity the gate attached to the request
func IdentityFromRouter(ctx router.Context) (RequestIdentity, bool) {
	return RequestIdentityFromContext(ctx.Context())
}

// RequireSubject returns the verified subject id as a UUID. Handlers reached
// without the gate get ErrUnableToFindSession.
func RequireSubject(ctx router.Context) (uuid.UUID, error) {
	identity, ok := IdentityFromRouter(ctx)
	if !ok {
		return uuid.Nil, ErrUnableToFindSession
	}

	id, err := identity.SubjectUUID()
	if err != nil {
		return uuid.Nil, ErrUnableToFindSession
	}

	return id, nil
}
