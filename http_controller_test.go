package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-jobportal"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userRoutesFixture struct {
	app  *fiber.App
	repo auth.RepositoryManager
}

func newUserRoutesFixture(t *testing.T) *userRoutesFixture {
	t.Helper()

	cfg := newTestConfig()
	repo := auth.NewRepositoryManager(setupTestDB(t))
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	provider := auth.NewUserProvider(repo.Users(), hasher)
	auther := auth.NewAuthenticator(provider, cfg)
	routes := auth.NewHTTPAuthenticator(auther, auther.TokenService(), cfg)
	controller := auth.NewAuthController(repo, routes, auth.NewRegisterUserHandler(repo, hasher),
		auth.WithControllerLogger(&MockLogger{}),
	)

	var app *fiber.App
	srv := router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		app = fiber.New(fiber.Config{ErrorHandler: auth.NewErrorResponder(&MockLogger{})})
		return app
	})
	auth.RegisterAuthRoutes(srv.Router().Group("/user"), controller)

	return &userRoutesFixture{app: app, repo: repo}
}

func (f *userRoutesFixture) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if body != nil {
		req = httptest.NewRequest(method, path, jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}

	res, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func registration() map[string]string {
	return map[string]string{
		"fullname":    "Ada Lovelace",
		"email":       "a@x.com",
		"phoneNumber": "5551234567",
		"password":    "s3cret!",
		"role":        "student",
	}
}

func TestAuthController_Registration(t *testing.T) {
	f := newUserRoutesFixture(t)

	res := f.do(t, http.MethodPost, "/user/register", registration(), nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Nil(t, findCookie(res, "token"), "registration never issues a token")

	var body struct {
		Success bool          `json:"success"`
		User    auth.UserView `json:"user"`
	}
	decodeBody(t, res, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "a@x.com", body.User.Email)
	assert.NotEmpty(t, body.User.ID)

	res = f.do(t, http.MethodPost, "/user/register", registration(), nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Nil(t, findCookie(res, "token"))
}

func TestAuthController_RegistrationValidation(t *testing.T) {
	f := newUserRoutesFixture(t)

	tests := []struct {
		name  string
		mut   func(map[string]string)
		field string
	}{
		{"missing email", func(m map[string]string) { delete(m, "email") }, "email"},
		{"bad email", func(m map[string]string) { m["email"] = "not-an-email" }, "email"},
		{"short password", func(m map[string]string) { m["password"] = "abc" }, "password"},
		{"password over 72 bytes", func(m map[string]string) { m["password"] = strings.Repeat("a", 80) }, "password"},
		{"multibyte password over 72 bytes", func(m map[string]string) { m["password"] = strings.Repeat("€", 25) }, "password"},
		{"unknown role", func(m map[string]string) { m["role"] = "admin" }, "role"},
		{"phone letters", func(m map[string]string) { m["phoneNumber"] = "call-me-now" }, "phoneNumber"},
		{"missing name", func(m map[string]string) { m["fullname"] = "" }, "fullname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := registration()
			tt.mut(payload)

			res := f.do(t, http.MethodPost, "/user/register", payload, nil)
			require.Equal(t, http.StatusBadRequest, res.StatusCode)

			var body auth.ErrorResponse
			decodeBody(t, res, &body)
			assert.Contains(t, body.Validation, tt.field)
		})
	}

	exists, err := f.repo.Users().ExistsByIdentifierTx(context.Background(), f.repo.DB(), "a@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAuthController_LoginAndProfile(t *testing.T) {
	f := newUserRoutesFixture(t)

	res := f.do(t, http.MethodPost, "/user/register", registration(), nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	t.Run("uniform rejection", func(t *testing.T) {
		wrong := f.do(t, http.MethodPost, "/user/login", map[string]string{
			"email": "a@x.com", "password": "nope!!", "role": "student",
		}, nil)
		unknown := f.do(t, http.MethodPost, "/user/login", map[string]string{
			"email": "b@x.com", "password": "s3cret!", "role": "student",
		}, nil)
		role := f.do(t, http.MethodPost, "/user/login", map[string]string{
			"email": "a@x.com", "password": "s3cret!", "role": "recruiter",
		}, nil)

		var first auth.ErrorResponse
		decodeBody(t, wrong, &first)
		assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)

		for _, other := range []*http.Response{unknown, role} {
			var body auth.ErrorResponse
			decodeBody(t, other, &body)
			assert.Equal(t, wrong.StatusCode, other.StatusCode)
			assert.Equal(t, first, body)
		}
	})

	res = f.do(t, http.MethodPost, "/user/login", map[string]string{
		"email": "A@X.com", "password": "s3cret!", "role": "Student",
	}, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	cookie := findCookie(res, "token")
	require.NotNil(t, cookie)

	res = f.do(t, http.MethodGet, "/user/me", nil, cookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var me struct {
		User auth.UserView `json:"user"`
	}
	decodeBody(t, res, &me)
	assert.Equal(t, "Ada Lovelace", me.User.FullName)

	res = f.do(t, http.MethodPost, "/user/profile/update", map[string]string{
		"bio":    "Analyst",
		"skills": "go, sql ,",
	}, cookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var updated struct {
		User auth.UserView `json:"user"`
	}
	decodeBody(t, res, &updated)
	assert.Equal(t, "Analyst", updated.User.Profile.Bio)
	assert.Equal(t, []string{"go", "sql"}, updated.User.Profile.Skills)
	assert.Equal(t, "Ada Lovelace", updated.User.FullName)

	res = f.do(t, http.MethodPost, "/user/profile/update", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = f.do(t, http.MethodGet, "/user/logout", nil, cookie)
	require.Equal(t, http.StatusOK, res.StatusCode)
	cleared := findCookie(res, "token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestFormatValidationErrorToMap(t *testing.T) {
	err := auth.RegistrationCreatePayload{Email: "bad"}.Validate()
	fields := auth.FormatValidationErrorToMap(err)

	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Empty(t, auth.FormatValidationErrorToMap(nil))

	other := auth.FormatValidationErrorToMap(assert.AnError)
	assert.True(t, strings.Contains(other["form"], "assert.AnError"))
}

func TestAuthController_PasswordAtBcryptLimit(t *testing.T) {
	f := newUserRoutesFixture(t)

	payload := registration()
	payload["password"] = strings.Repeat("b", auth.MaxPasswordBytes)

	res := f.do(t, http.MethodPost, "/user/register", payload, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = f.do(t, http.MethodPost, "/user/login", map[string]string{
		"email": "a@x.com", "password": payload["password"], "role": "student",
	}, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotNil(t, findCookie(res, "token"))
}

func TestAuthController_LogoutWithoutSession(t *testing.T) {
	f := newUserRoutesFixture(t)

	res := f.do(t, http.MethodGet, "/user/logout", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	cleared := findCookie(res, "token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	res = f.do(t, http.MethodGet, "/user/logout", nil, &http.Cookie{Name: "token", Value: "garbage"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
