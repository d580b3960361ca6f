package auth_test

import (
	"database/sql"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-jobportal"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantCode   string
	}{
		{
			name:       "validation",
			err:        auth.NewValidationError(map[string]string{"email": "must be a valid email address"}),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid request payload",
			wantCode:   auth.TextCodeValidationFailed,
		},
		{
			name:       "conflict",
			err:        auth.ErrIdentifierTaken,
			wantStatus: http.StatusConflict,
			wantMsg:    "user already exists with this email",
			wantCode:   auth.TextCodeIdentifierTaken,
		},
		{
			name:       "authentication",
			err:        auth.ErrMismatchedHashAndPassword,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "invalid credential",
			wantCode:   auth.TextCodeInvalidCreds,
		},
		{
			name:       "forbidden",
			err:        auth.NewForbiddenError("recruiters only"),
			wantStatus: http.StatusForbidden,
			wantMsg:    "recruiters only",
			wantCode:   auth.TextCodeForbidden,
		},
		{
			name:       "not found",
			err:        auth.NewNotFoundError("job not found", nil),
			wantStatus: http.StatusNotFound,
			wantMsg:    "job not found",
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "internal hides detail",
			err:        auth.WrapInternal(stderrors.New("dial tcp 10.0.0.1: refused"), "db down"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "An unexpected server error occurred",
			wantCode:   auth.TextCodeInternal,
		},
		{
			name:       "plain error hides detail",
			err:        stderrors.New("secret stack detail"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "An unexpected server error occurred",
			wantCode:   auth.TextCodeInternal,
		},
		{
			name:       "category fallback",
			err:        errors.New("gone", errors.CategoryNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    "gone",
		},
		{
			name:       "fiber error",
			err:        fiber.NewError(fiber.StatusMethodNotAllowed, "nope"),
			wantStatus: http.StatusMethodNotAllowed,
			wantMsg:    "nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := auth.ErrorToResponse(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body.TextCode)
			}
		})
	}
}

func TestErrorToResponse_ValidationFields(t *testing.T) {
	_, body := auth.ErrorToResponse(auth.NewValidationError(map[string]string{
		"email":    "must be a valid email address",
		"password": "cannot be blank",
	}))

	assert.Equal(t, "must be a valid email address", body.Validation["email"])
	assert.Equal(t, "cannot be blank", body.Validation["password"])
}

func TestNewErrorResponder(t *testing.T) {
	logger := &MockLogger{}
	app := fiber.New(fiber.Config{ErrorHandler: auth.NewErrorResponder(logger)})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return auth.WrapInternal(stderrors.New("password=hunter2"), "query failed")
	})
	app.Get("/dup", func(c *fiber.Ctx) error {
		return auth.ErrIdentifierTaken
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	var body auth.ErrorResponse
	decodeBody(t, res, &body)
	assert.NotContains(t, body.Message, "hunter2")
	assert.NotEmpty(t, logger.Entries())

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/dup", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	decodeBody(t, res, &body)
	assert.Equal(t, auth.TextCodeIdentifierTaken, body.TextCode)
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, auth.IsNotFound(sql.ErrNoRows))
	assert.True(t, auth.IsNotFound(repository.NewRecordNotFound()))
	assert.True(t, auth.IsNotFound(auth.ErrIdentityNotFound))
	assert.False(t, auth.IsNotFound(nil))
	assert.False(t, auth.IsNotFound(stderrors.New("other")))

	assert.True(t, auth.IsUniqueViolation(stderrors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, auth.IsUniqueViolation(stderrors.New(`pq: duplicate key value violates unique constraint "users_email_key"`)))
	assert.False(t, auth.IsUniqueViolation(nil))
	assert.False(t, auth.IsUniqueViolation(stderrors.New("syntax error")))

	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.False(t, auth.IsTokenExpiredError(nil))
	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))

	assert.Equal(t, http.StatusForbidden, auth.StatusFromError(auth.NewForbiddenError("x")))
	assert.Equal(t, http.StatusInternalServerError, auth.StatusFromError(nil))
}
