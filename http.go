package auth

import (
	"strings"
	"time"

	"github.com/goliatone/go-jobportal/middleware/jwtware"
	"github.com/goliatone/go-router"
)

// DefaultCookieName is the cookie carrying the session token
const DefaultCookieName = "token"

const cookieSameSite = "Strict"

type RouteAuthenticator struct {
	auth           Authenticator
	tokens         TokenService
	cfg            Config
	cookieName     string
	cookieDuration time.Duration
	Logger         Logger
	// ErrorHandler answers gate rejections, nil defers to the app error handler
	ErrorHandler router.ErrorHandler
}

func NewHTTPAuthenticator(auther Authenticator, tokens TokenService, cfg Config) *RouteAuthenticator {
	cookieDuration := DefaultTokenTTL
	if tokens != nil && tokens.TTL() > 0 {
		cookieDuration = tokens.TTL()
	}

	return &RouteAuthenticator{
		cfg:            cfg,
		auth:           auther,
		tokens:         tokens,
		cookieName:     cookieNameFromLookup(cfg.GetTokenLookup()),
		cookieDuration: cookieDuration,
		Logger:         defLogger{},
	}
}

func (a *RouteAuthenticator) WithLogger(l Logger) *RouteAuthenticator {
	if l != nil {
		a.Logger = l
	}
	return a
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// ProtectedRoute returns the authentication gate
func (a *RouteAuthenticator) ProtectedRoute(listeners ...ValidationListener) router.MiddlewareFunc {
	errorHandler := a.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(ctx router.Context, err error) error {
			return err
		}
	}

	cfg := jwtware.Config{
		ErrorHandler:    errorHandler,
		ContextKey:      a.cfg.GetContextKey(),
		TokenLookup:     a.cfg.GetTokenLookup(),
		TokenValidator:  GateValidator{Tokens: a.tokens, Logger: a.Logger},
		ContextEnricher: ContextEnricherAdapter,
		Logger:          a.Logger,
	}
	RegisterValidationListeners(&cfg, listeners...)

	return jwtware.New(cfg)
}

// Login verifies the payload and sets the session cookie
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) (*User, error) {
	token, user, err := a.auth.Login(ctx.Context(), payload)
	if err != nil {
		return nil, err
	}

	a.setCookieToken(ctx, token, a.cookieDuration)
	return user, nil
}

// Logout overwrites the session cookie with an expired one
func (a *RouteAuthenticator) Logout(ctx router.Context) {
	a.cookieDel(ctx, a.cookieName)
}

func (a *RouteAuthenticator) setCookieToken(ctx router.Context, val string, duration time.Duration) {
	ctx.Cookie(&router.Cookie{
		Name:     a.cookieName,
		Value:    val,
		Path:     "/",
		MaxAge:   int(duration / time.Second),
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   a.cfg.GetCookieSecure(),
		SameSite: cookieSameSite,
	})
}

func (a *RouteAuthenticator) cookieDel(ctx router.Context, name string) {
	ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   a.cfg.GetCookieSecure(),
		SameSite: cookieSameSite,
	})
}

// cookieNameFromLookup picks the cookie out of a lookup like "header:Authorization,cookie:token"
func cookieNameFromLookup(lookup string) string {
	for _, part := range strings.Split(lookup, ",") {
		source, name, ok := strings.Cut(strings.TrimSpace(part), ":")
		if ok && strings.TrimSpace(source) == "cookie" && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return DefaultCookieName
}
