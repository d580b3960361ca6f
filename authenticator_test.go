package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	auth "github.com/goliatone/go-jobportal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_Login(t *testing.T) {
	ctx := context.Background()
	user := &auth.User{
		ID:    uuid.New(),
		Email: "a@x.com",
		Role:  auth.RoleStudent,
	}

	t.Run("issues a token for the verified subject", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("VerifyIdentity", ctx, "a@x.com", "s3cret!", auth.RoleStudent).Return(user, nil).Once()

		auther := auth.NewAuthenticator(provider, newTestConfig())

		token, got, err := auther.Login(ctx, auth.LoginRequest{
			Identifier: "  a@x.com ",
			Password:   "s3cret!",
			Role:       auth.RoleStudent,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, user, got)

		claims, err := auther.TokenService().Validate(token)
		require.NoError(t, err)
		identity, err := auth.IdentityFromClaims(claims)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.SubjectID)
		assert.WithinDuration(t, identity.IssuedAt.Add(auth.DefaultTokenTTL), identity.ExpiresAt, time.Second)

		provider.AssertExpectations(t)
	})

	t.Run("propagates the uniform rejection", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("VerifyIdentity", ctx, "a@x.com", "wrong", "").Return(nil, auth.ErrMismatchedHashAndPassword).Once()

		auther := auth.NewAuthenticator(provider, newTestConfig()).WithLogger(&MockLogger{})

		token, got, err := auther.Login(ctx, auth.LoginRequest{Identifier: "a@x.com", Password: "wrong"})
		assert.Empty(t, token)
		assert.Nil(t, got)
		assert.True(t, errors.Is(err, auth.ErrMismatchedHashAndPassword))
	})

	t.Run("nil user is a rejection", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		provider.On("VerifyIdentity", ctx, "a@x.com", "s3cret!", "").Return(nil, nil).Once()

		auther := auth.NewAuthenticator(provider, newTestConfig())

		_, _, err := auther.Login(ctx, auth.LoginRequest{Identifier: "a@x.com", Password: "s3cret!"})
		assert.True(t, errors.Is(err, auth.ErrMismatchedHashAndPassword))
	})
}

func TestGateValidator(t *testing.T) {
	clock := newClock()
	tokens := auth.NewTokenService(testSigningKey, time.Hour, auth.WithClock(clock.Now))
	auther := auth.NewAuthenticator(new(MockIdentityProvider), newTestConfig()).WithTokenService(tokens)

	assert.Same(t, tokens, auther.TokenService())

	subject := uuid.New()
	identity := &MockIdentity{}
	identity.On("ID").Return(subject.String())

	token, err := tokens.Generate(identity)
	require.NoError(t, err)

	logger := &MockLogger{}
	gate := auth.GateValidator{Tokens: tokens, Logger: logger}

	claims, err := gate.Validate(token)
	require.NoError(t, err)
	session, err := auth.IdentityFromClaims(claims)
	require.NoError(t, err)
	id, err := session.SubjectUUID()
	require.NoError(t, err)
	assert.Equal(t, subject, id)
	assert.Empty(t, logger.Entries())

	_, err = gate.Validate(token[:len(token)-1])
	assert.Error(t, err)

	clock.Advance(2 * time.Hour)
	_, err = gate.Validate(token)
	assert.True(t, auth.IsTokenExpiredError(err))

	entries := logger.Entries()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1], "expired")
}
