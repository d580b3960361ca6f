package auth_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	auth "github.com/goliatone/go-jobportal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (r *recordingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) Types() []auth.ActivityEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]auth.ActivityEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

func TestAuther_EmitsLoginActivity(t *testing.T) {
	user := &auth.User{ID: uuid.New(), Email: "a@x.com", Role: auth.RoleStudent}

	provider := new(MockIdentityProvider)
	provider.On("VerifyIdentity", mock.Anything, "a@x.com", "s3cret!", "").Return(user, nil)
	provider.On("VerifyIdentity", mock.Anything, "a@x.com", "wrong", "").Return(nil, auth.ErrMismatchedHashAndPassword)

	sink := &recordingSink{}
	auther := auth.NewAuthenticator(provider, newTestConfig()).WithActivitySink(sink)

	_, _, err := auther.Login(context.Background(), auth.LoginRequest{Identifier: "a@x.com", Password: "wrong"})
	require.Error(t, err)
	_, _, err = auther.Login(context.Background(), auth.LoginRequest{Identifier: "a@x.com", Password: "s3cret!"})
	require.NoError(t, err)

	assert.Equal(t, []auth.ActivityEventType{
		auth.ActivityEventLoginFailure,
		auth.ActivityEventLoginSuccess,
	}, sink.Types())

	assert.Empty(t, sink.events[0].UserID)
	assert.Equal(t, "a@x.com", sink.events[0].Metadata["identifier"])
	assert.Equal(t, user.ID.String(), sink.events[1].UserID)
	assert.False(t, sink.events[1].OccurredAt.IsZero())
}

func TestRegisterUserHandler_EmitsActivity(t *testing.T) {
	repo := auth.NewRepositoryManager(setupTestDB(t))
	sink := &recordingSink{}
	handler := auth.NewRegisterUserHandler(repo, auth.NewBcryptHasher(bcrypt.MinCost)).WithActivitySink(sink)

	msg := auth.RegisterUserMessage{FullName: "Ada", Email: "a@x.com", Password: "s3cret!"}
	_, err := handler.Register(context.Background(), msg)
	require.NoError(t, err)
	_, err = handler.Register(context.Background(), msg)
	require.Error(t, err)

	assert.Equal(t, []auth.ActivityEventType{auth.ActivityEventUserRegistered}, sink.Types())
}

func TestActivitySinkFailureIsIgnored(t *testing.T) {
	user := &auth.User{ID: uuid.New()}
	provider := new(MockIdentityProvider)
	provider.On("VerifyIdentity", mock.Anything, "a@x.com", "s3cret!", "").Return(user, nil)

	logger := &MockLogger{}
	failing := auth.ActivitySinkFunc(func(context.Context, auth.ActivityEvent) error {
		return errors.New("queue full")
	})
	auther := auth.NewAuthenticator(provider, newTestConfig()).WithLogger(logger).WithActivitySink(failing)

	token, _, err := auther.Login(context.Background(), auth.LoginRequest{Identifier: "a@x.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, logger.Entries())
}

func TestLoggerActivitySink(t *testing.T) {
	buf := &bytes.Buffer{}
	sink := auth.LoggerActivitySink(auth.NewZeroLogger(buf, "info"))

	require.NoError(t, sink.Record(context.Background(), auth.ActivityEvent{
		EventType: auth.ActivityEventUserRegistered,
		UserID:    "user-1",
		Metadata:  map[string]any{"role": "student"},
	}))

	lines := readLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "auth.user.registered", lines[0]["event"])
	assert.Equal(t, "user-1", lines[0]["user_id"])
	assert.Equal(t, "student", lines[0]["role"])

	var nilFunc auth.ActivitySinkFunc
	assert.NoError(t, nilFunc.Record(context.Background(), auth.ActivityEvent{}))
}
