package portal

import (
	auth "github.com/goliatone/go-jobportal"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

const currentUserKey = "portal.current_user"

// LoadSubject loads the verified subject and keeps it for the rest of the
// request. It must be mounted after the gate.
func LoadSubject(users auth.UserFinder) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			id, err := auth.RequireSubject(ctx)
			if err != nil {
				return err
			}

			user, err := users.GetByIdentifier(ctx.Context(), id.String())
			if err != nil {
				if auth.IsNotFound(err) {
					return auth.ErrIdentityNotFound
				}
				return auth.WrapInternal(err, "failed to load current user")
			}

			ctx.Locals(currentUserKey, user)
			return next(ctx)
		}
	}
}

// RequireRole rejects subjects whose role is not listed
func RequireRole(roles ...auth.UserRole) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			user, err := CurrentUser(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if user.Role == role {
					return next(ctx)
				}
			}
			return auth.NewForbiddenError("you are not allowed to perform this action")
		}
	}
}

// CurrentUser returns the subject record loaded by LoadSubject
func CurrentUser(ctx router.Context) (*auth.User, error) {
	user, ok := ctx.Locals(currentUserKey).(*auth.User)
	if !ok || user == nil {
		return nil, auth.ErrUnableToFindSession
	}
	return user, nil
}

func paramUUID(ctx router.Context, name, entity string) (uuid.UUID, error) {
	raw := ctx.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, auth.NewNotFoundError(entity+" not found", map[string]any{name: raw})
	}
	return id, nil
}
