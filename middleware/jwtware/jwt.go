package jwtware

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup = "cookie:token"

	// ErrMissingCredential no token was found in any configured location
	ErrMissingCredential = errors.New("missing credential", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized).
				WithTextCode("MISSING_CREDENTIAL")

	// ErrInvalidCredential covers expired, tampered and malformed tokens alike
	ErrInvalidCredential = errors.New("invalid credential", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized).
				WithTextCode("INVALID_CREDENTIAL")
)

// TokenValidator interface for validating tokens without import cycles
// This mirrors the TokenService.Validate method from the auth package
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims interface for verified claims without import cycles
type AuthClaims interface {
	Subject() string
	UserID() string
	Expires() time.Time
	IssuedAt() time.Time
}

// Logger receives the rejection causes the client never sees
type Logger interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
}

// ValidationListener is invoked after a token has been validated and before the
// request proceeds. Returning an error rejects the request.
type ValidationListener func(ctx router.Context, claims AuthClaims) error

type Config struct {
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	ContextKey     string
	TokenLookup    string
	AuthScheme     string
	// TokenValidator is required for token validation
	TokenValidator TokenValidator

	// ContextEnricher propagates claims to the standard Go context, it runs
	// after successful token validation.
	ContextEnricher func(c context.Context, claims AuthClaims) context.Context

	ValidationListeners []ValidationListener

	Logger Logger
}

// New returns the authentication gate. A rejected request never reaches the
// next handler.
func New(config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)
	extractors := cfg.getExtractors()

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return next(ctx)
			}

			raw, err := ExtractRawToken(ctx, extractors)
			if err != nil {
				cfg.Logger.Debug("gate rejected request", "path", ctx.OriginalURL(), "reason", err)
				return cfg.ErrorHandler(ctx, ErrMissingCredential)
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				cfg.Logger.Debug("gate rejected token", "path", ctx.OriginalURL(), "reason", err)
				return cfg.ErrorHandler(ctx, ErrInvalidCredential)
			}

			if claims == nil || claims.UserID() == "" {
				cfg.Logger.Warn("gate received claims without subject", "path", ctx.OriginalURL())
				return cfg.ErrorHandler(ctx, ErrInvalidCredential)
			}

			if err := cfg.runValidationListeners(ctx, claims); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, claims)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), claims))
			}

			if cfg.SuccessHandler != nil {
				if err := cfg.SuccessHandler(ctx); err != nil {
					return err
				}
			}

			return next(ctx)
		}
	}
}

// ExtractRawToken returns the first non empty token found by extractors
func ExtractRawToken(ctx router.Context, extractors []JWTExtractor) (string, error) {
	err := error(ErrMissingCredential)
	for _, extractor := range extractors {
		raw, e := extractor(ctx)
		if raw != "" && e == nil {
			return raw, nil
		}
		if e != nil {
			err = e
		}
	}
	return "", err
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx router.Context, err error) error {
			message := ErrInvalidCredential.Message
			var richErr *errors.Error
			if errors.As(err, &richErr) {
				message = richErr.Message
			}
			return ctx.JSON(router.StatusUnauthorized, map[string]any{
				"success": false,
				"message": message,
			})
		}
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	return cfg
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func (cfg *Config) runValidationListeners(ctx router.Context, claims AuthClaims) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(ctx, claims); err != nil {
			return err
		}
	}
	return nil
}

// GetExtractors parses a lookup such as "header:Authorization,cookie:token"
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 && strings.TrimSpace(authSchemes[0]) != "" {
		authScheme = strings.TrimSpace(authSchemes[0])
	}

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source, key := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		switch source {
		case "header":
			extractors = append(extractors, jwtFromHeader(key, authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(key))
		case "param":
			extractors = append(extractors, jwtFromParam(key))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(key))
		}
	}

	return extractors
}

type JWTExtractor func(ctx router.Context) (string, error)

// jwtFromHeader returns a function that extracts token from the request header.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(ctx router.Context) (string, error) {
		a := ctx.Header(header)
		l := len(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrMissingCredential
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) JWTExtractor {
	return func(ctx router.Context) (string, error) {
		token := ctx.Query(param, "")
		if token == "" {
			return "", ErrMissingCredential
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) JWTExtractor {
	return func(ctx router.Context) (string, error) {
		token := ctx.Param(param, "")
		if token == "" {
			return "", ErrMissingCredential
		}
		return token, nil
	}
}

// jwtFromCookie returns a function that extracts token from the named cookie.
func jwtFromCookie(name string) JWTExtractor {
	return func(ctx router.Context) (string, error) {
		token := ctx.Cookies(name)
		if token == "" {
			return "", ErrMissingCredential
		}
		return token, nil
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
