package auth

import (
	"context"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, payload LoginPayload) (string, *User, error)
}

type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
	GetRole() string
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Email() string
	Role() string
}

// Config holds auth options. Values are read once at construction time.
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() time.Duration
	GetContextKey() string
	GetTokenLookup() string
	GetIssuer() string
	GetAudience() []string
	GetCookieSecure() bool
	GetPasswordCost() int
}

// IdentityProvider ensure we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password, role string) (*User, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenService signs and validates session tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
	TTL() time.Duration
}
