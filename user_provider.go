package auth

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserFinder is a store we can use to retrieve users
type UserFinder interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
}

// UserProvider verifies credentials against the credential store
type UserProvider struct {
	store  UserFinder
	hasher PasswordAuthenticator
	logger Logger

	dummyOnce sync.Once
	dummyHash string
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserFinder, hasher PasswordAuthenticator) *UserProvider {
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultPasswordCost)
	}
	return &UserProvider{
		store:  store,
		hasher: hasher,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password and check the role.
// Every rejection is ErrMismatchedHashAndPassword, store failures are internal.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password, role string) (*User, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if IsNotFound(err) {
			u.burnCompare(password)
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, WrapInternal(err, "failed to retrieve user during verification")
	}

	if user == nil {
		u.burnCompare(password)
		return nil, ErrMismatchedHashAndPassword
	}

	if err := u.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMalformedPasswordHash) {
			u.logger.Error("stored password hash is malformed", "user_id", user.GetID())
		}
		return nil, ErrMismatchedHashAndPassword
	}

	if role != "" && role != user.Role {
		u.logger.Debug("login role mismatch", "user_id", user.GetID(), "role", role)
		return nil, ErrMismatchedHashAndPassword
	}

	return user, nil
}

// burnCompare spends the same CPU as a real compare for unknown identifiers
func (u *UserProvider) burnCompare(password string) {
	u.dummyOnce.Do(func() {
		h, err := RandomPasswordHash(u.hasher)
		if err != nil {
			u.logger.Error("dummy password hash", "error", err)
			return
		}
		u.dummyHash = h
	})
	if u.dummyHash != "" {
		_ = u.hasher.ComparePasswordAndHash(password, u.dummyHash)
	}
}
