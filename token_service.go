package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the lifetime of a session token
const DefaultTokenTTL = 24 * time.Hour

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// TokenServiceOption configures a TokenServiceImpl
type TokenServiceOption func(*TokenServiceImpl)

// WithClock overrides the time source used to issue and validate tokens.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithIssuer sets the iss claim and requires it on validation.
func WithIssuer(issuer string) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.issuer = issuer
	}
}

// WithAudience sets the aud claim and requires it on validation.
func WithAudience(audience ...string) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if len(audience) == 0 {
			ts.audience = nil
			return
		}
		ts.audience = append(jwt.ClaimStrings(nil), audience...)
	}
}

// WithTokenLogger sets the logger
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService instance. A non positive ttl
// falls back to DefaultTokenTTL.
func NewTokenService(signingKey []byte, ttl time.Duration, opts ...TokenServiceOption) *TokenServiceImpl {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	ts := &TokenServiceImpl{
		signingKey: append([]byte(nil), signingKey...),
		ttl:        ttl,
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// NewTokenServiceFromConfig builds the service from the process configuration
func NewTokenServiceFromConfig(cfg Config, logger Logger) *TokenServiceImpl {
	return NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		WithIssuer(cfg.GetIssuer()),
		WithAudience(cfg.GetAudience()...),
		WithTokenLogger(logger),
	)
}

// TTL returns the lifetime of issued tokens
func (ts *TokenServiceImpl) TTL() time.Duration {
	return ts.ttl
}

// Generate creates a session token for identity
func (ts *TokenServiceImpl) Generate(identity Identity) (string, error) {
	if identity == nil || identity.ID() == "" {
		return "", errors.New("identity is required", errors.CategoryBadInput)
	}
	return ts.SignClaims(ts.newClaims(identity.ID()))
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims.
// The signature is checked before any claim is evaluated.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithCode(ErrTokenMalformed.Code).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return nil, ErrTokenMalformed
	}

	if claims.UserID() == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

func (ts *TokenServiceImpl) newClaims(subjectID string) *JWTClaims {
	now := ts.now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subjectID,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		UID: subjectID,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims == nil || claims.ID != "" {
		return
	}
	claims.ID = uuid.NewString()
}

// SignSubject issues a token for subjectID valid for ttl.
func SignSubject(subjectID string, secret []byte, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", errors.New("subject is required", errors.CategoryBadInput)
	}
	ts := NewTokenService(secret, ttl)
	return ts.SignClaims(ts.newClaims(subjectID))
}

// VerifySubject validates token against secret and returns its subject.
func VerifySubject(token string, secret []byte) (string, error) {
	claims, err := NewTokenService(secret, DefaultTokenTTL).Validate(token)
	if err != nil {
		return "", err
	}
	return claims.UserID(), nil
}
