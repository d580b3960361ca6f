package auth

import (
	"context"

	"github.com/goliatone/go-jobportal/middleware/jwtware"
)

// ValidationListener aliases the jwtware listener so consumers can use auth helpers directly.
type ValidationListener = jwtware.ValidationListener

// ContextEnricherAdapter stores the verified identity in the standard context
// so handlers can read it through RequestIdentityFromContext.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	identity, err := IdentityFromClaims(claims)
	if err != nil {
		return c
	}
	return WithRequestIdentity(c, identity)
}

// GateValidator adapts a TokenService to the jwtware.TokenValidator contract
type GateValidator struct {
	Tokens TokenService
	Logger Logger
}

func (v GateValidator) Validate(raw string) (jwtware.AuthClaims, error) {
	claims, err := v.Tokens.Validate(raw)
	if err != nil {
		if v.Logger != nil {
			v.Logger.Debug("session token rejected", "cause", tokenFailureCause(err))
		}
		return nil, err
	}
	return claims, nil
}

func tokenFailureCause(err error) string {
	switch {
	case IsTokenExpiredError(err):
		return "expired"
	case IsMalformedError(err):
		return "malformed"
	default:
		return "unknown"
	}
}

// RegisterValidationListeners appends listeners to a jwtware.Config in a safe, reusable way.
func RegisterValidationListeners(cfg *jwtware.Config, listeners ...ValidationListener) {
	if cfg == nil || len(listeners) == 0 {
		return
	}
	cfg.ValidationListeners = append(cfg.ValidationListeners, listeners...)
}
