package auth

import (
	"context"
	"strings"
)

// LoginRequest is the credential triple submitted at login
type LoginRequest struct {
	Identifier string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

func (r LoginRequest) GetIdentifier() string { return r.Identifier }
func (r LoginRequest) GetPassword() string   { return r.Password }
func (r LoginRequest) GetRole() string       { return r.Role }

var _ LoginPayload = LoginRequest{}

type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
	activitySink ActivitySink
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator. The token service is built
// once from opts and never re-read.
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	return &Auther{
		provider:     provider,
		tokenService: NewTokenServiceFromConfig(opts, defLogger{}),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting login events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithTokenService replaces the token service, tests use it to inject a clock.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credential triple and issues a session token
func (s *Auther) Login(ctx context.Context, payload LoginPayload) (string, *User, error) {
	identifier := strings.TrimSpace(payload.GetIdentifier())

	user, err := s.provider.VerifyIdentity(ctx, identifier, payload.GetPassword(), payload.GetRole())
	if err != nil {
		s.logger.Warn("Login verify identity error", "identifier", identifier, "error", err)
		emitActivity(ctx, s.activitySink, s.logger, ActivityEventLoginFailure, "", map[string]any{
			"identifier": identifier,
		})
		return "", nil, err
	}

	if user == nil {
		emitActivity(ctx, s.activitySink, s.logger, ActivityEventLoginFailure, "", map[string]any{
			"identifier": identifier,
		})
		return "", nil, ErrMismatchedHashAndPassword
	}

	token, err := s.tokenService.Generate(NewIdentityFromUser(user))
	if err != nil {
		s.logger.Error("Login token generation failed", "user_id", user.GetID(), "error", err)
		return "", nil, WrapInternal(err, "failed to issue session token")
	}

	s.logger.Info("Login success", "user_id", user.GetID())
	emitActivity(ctx, s.activitySink, s.logger, ActivityEventLoginSuccess, user.GetID(), map[string]any{
		"role": user.Role,
	})

	return token, user, nil
}
