package auth

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// RegisterAuthRoutes mounts the user routes. Register, login and logout are
// public, everything else sits behind the gate.
func RegisterAuthRoutes[T any](app router.Router[T], controller *AuthController) {
	app.Post(controller.Routes.Register, controller.RegistrationCreate)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Get(controller.Routes.Logout, controller.LogOut)

	protected := controller.Auther.ProtectedRoute()

	app.Get(controller.Routes.Me, controller.Me, protected)
	app.Post(controller.Routes.ProfileUpdate, controller.ProfileUpdate, protected)
}

type AuthControllerRoutes struct {
	Login         string
	Logout        string
	Register      string
	Me            string
	ProfileUpdate string
}

type AuthController struct {
	Debug    bool
	Logger   Logger
	Repo     RepositoryManager
	Routes   *AuthControllerRoutes
	Auther   *RouteAuthenticator
	Register *RegisterUserHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		if l != nil {
			ac.Logger = l
		}
		return ac
	}
}

func WithAuthControllerDebug(debug bool) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		ac.Debug = debug
		return ac
	}
}

func NewAuthController(repo RepositoryManager, auther *RouteAuthenticator, register *RegisterUserHandler, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:   defLogger{},
		Repo:     repo,
		Auther:   auther,
		Register: register,
		Routes: &AuthControllerRoutes{
			Login:         "/login",
			Logout:        "/logout",
			Register:      "/register",
			Me:            "/me",
			ProfileUpdate: "/profile/update",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	if c.Register == nil {
		c.Register = NewRegisterUserHandler(c.Repo, nil)
	}

	return c
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Role, validation.Required, validation.In(RolesAsAny()...)),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Warn("login parse payload", "error", err)
		return ErrUnableToParseData
	}

	payload.Role, _ = ParseRole(payload.Role)
	if err := payload.Validate(); err != nil {
		return NewValidationError(FormatValidationErrorToMap(err))
	}

	user, err := a.Auther.Login(ctx, payload)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Welcome back %s", user.FullName),
		"user":    user.View(),
	})
}

func (a *AuthController) LogOut(ctx router.Context) error {
	a.Auther.Logout(ctx)
	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully.",
	})
}

// RegistrationCreatePayload is the registration request body
type RegistrationCreatePayload struct {
	FullName string `form:"fullname" json:"fullname"`
	Email    string `form:"email" json:"email"`
	Phone    string `form:"phoneNumber" json:"phoneNumber"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&r.Phone, validation.Required, validation.Length(7, 15), is.Digit),
		validation.Field(&r.Password, validation.Required, validation.Length(6, MaxPasswordBytes)),
		validation.Field(&r.Role, validation.Required, validation.In(RolesAsAny()...)),
	)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Warn("register user parse payload", "error", err)
		return ErrUnableToParseData
	}

	payload.Role, _ = ParseRole(payload.Role)
	if err := payload.Validate(); err != nil {
		return NewValidationError(FormatValidationErrorToMap(err))
	}

	if a.Debug {
		a.Logger.Debug("register user", "payload", print.MaybePrettyJSON(map[string]any{
			"fullname": payload.FullName,
			"email":    payload.Email,
			"role":     payload.Role,
		}))
	}

	user, err := a.Register.Register(ctx.Context(), RegisterUserMessage{
		FullName: payload.FullName,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account created successfully.",
		"user":    user.View(),
	})
}

// Me returns the current subject, loaded fresh from the store
func (a *AuthController) Me(ctx router.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    user.View(),
	})
}

// ProfileUpdatePayload holds the optional profile fields
type ProfileUpdatePayload struct {
	FullName *string `form:"fullname" json:"fullname"`
	Phone    *string `form:"phoneNumber" json:"phoneNumber"`
	Bio      *string `form:"bio" json:"bio"`
	Skills   *string `form:"skills" json:"skills"`
}

// Validate will validate the payload
func (r ProfileUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Phone, validation.NilOrNotEmpty, validation.Length(7, 15), is.Digit),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.Skills, validation.Length(0, 2000)),
	)
}

func (a *AuthController) ProfileUpdate(ctx router.Context) error {
	id, err := RequireSubject(ctx)
	if err != nil {
		return err
	}

	payload := new(ProfileUpdatePayload)
	if err := ctx.Bind(payload); err != nil {
		return ErrUnableToParseData
	}

	if err := payload.Validate(); err != nil {
		return NewValidationError(FormatValidationErrorToMap(err))
	}

	update := ProfileUpdate{
		FullName: payload.FullName,
		Phone:    payload.Phone,
		Bio:      payload.Bio,
	}
	if payload.Skills != nil {
		update.Skills = SplitList(*payload.Skills)
	}

	user, err := a.Repo.Users().UpdateProfile(ctx.Context(), id, update)
	if err != nil {
		if IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return WrapInternal(err, "failed to update profile")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully.",
		"user":    user.View(),
	})
}

func (a *AuthController) currentUser(ctx router.Context) (*User, error) {
	id, err := RequireSubject(ctx)
	if err != nil {
		return nil, err
	}

	user, err := a.Repo.Users().GetByIdentifier(ctx.Context(), id.String())
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, WrapInternal(err, "failed to load current user")
	}

	return user, nil
}

// FormatValidationErrorToMap flattens ozzo errors into field -> message
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}
