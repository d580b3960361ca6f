package auth

import (
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used when none is configured
const DefaultPasswordCost = bcrypt.DefaultCost

// BcryptHasher implements PasswordAuthenticator with a fixed work factor
type BcryptHasher struct {
	cost int
}

var _ PasswordAuthenticator = BcryptHasher{}

// NewBcryptHasher returns a hasher, costs outside bcrypt's range fall back
// to DefaultPasswordCost.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return BcryptHasher{cost: cost}
}

// Cost returns the configured work factor
func (h BcryptHasher) Cost() int {
	if h.cost == 0 {
		return DefaultPasswordCost
	}
	return h.cost
}

// HashPassword will generate a salted password hash
func (h BcryptHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}
	return string(b), nil
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func (h BcryptHasher) ComparePasswordAndHash(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatchedHashAndPassword
	}

	return ErrMalformedPasswordHash
}

// Verify reports whether password matches hash
func (h BcryptHasher) Verify(password, hash string) bool {
	return h.ComparePasswordAndHash(password, hash) == nil
}

// HashPassword hashes with DefaultPasswordCost
func HashPassword(password string) (string, error) {
	return NewBcryptHasher(DefaultPasswordCost).HashPassword(password)
}

// ComparePasswordAndHash compares using the cost embedded in hash
func ComparePasswordAndHash(password, hash string) error {
	return BcryptHasher{}.ComparePasswordAndHash(password, hash)
}

// RandomPasswordHash hashes a random secret with hasher, the result is a
// digest nobody knows the password for.
func RandomPasswordHash(hasher PasswordAuthenticator) (string, error) {
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultPasswordCost)
	}
	return hasher.HashPassword(uuid.New().String())
}
