package auth

import (
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodePasswordTooLong    = "PASSWORD_TOO_LONG"
	TextCodeMalformedHash      = "MALFORMED_PASSWORD_HASH"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeSessionNotFound    = "SESSION_NOT_FOUND"
	TextCodeIdentifierTaken    = "IDENTIFIER_TAKEN"
	TextCodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
	TextCodeDataParseError     = "DATA_PARSE_ERROR"
	TextCodeValidationFailed   = "VALIDATION_FAILED"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeInternal           = "INTERNAL_ERROR"
	genericInvalidCredentials  = "invalid credential"
	genericInternalServerError = "An unexpected server error occurred"
)

// ErrMismatchedHashAndPassword is the single outcome of every failed login.
// Unknown identifier, wrong password, corrupt digest and role mismatch all
// collapse into it so callers cannot enumerate accounts.
var ErrMismatchedHashAndPassword = errors.New(genericInvalidCredentials, errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrMalformedPasswordHash is returned when a stored digest can not be parsed
var ErrMalformedPasswordHash = errors.New("stored password hash is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeMalformedHash)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// ErrPasswordTooLong is returned for passwords over bcrypt's 72 byte limit
var ErrPasswordTooLong = errors.New("password must not exceed 72 bytes", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodePasswordTooLong)

// ErrTokenExpired token is past its expiration time
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed token failed structural or signature validation
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrUnableToFindSession is the error when our request has no verified identity
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeSessionNotFound)

// ErrIdentifierTaken is returned at registration for duplicated emails
var ErrIdentifierTaken = errors.New("user already exists with this email", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeIdentifierTaken)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrUnableToParseData parse error
var ErrUnableToParseData = errors.New("unable to parse data", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeDataParseError)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "signature is invalid")
}

// NewValidationError wraps field level failures into a 400 error.
func NewValidationError(fields map[string]string) *errors.Error {
	return errors.New("invalid request payload", errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithTextCode(TextCodeValidationFailed).
		WithMetadata(map[string]any{"fields": fields})
}

// NewForbiddenError is returned when a verified subject lacks role or ownership.
func NewForbiddenError(message string) *errors.Error {
	return errors.New(message, errors.CategoryAuthz).
		WithCode(errors.CodeForbidden).
		WithTextCode(TextCodeForbidden)
}

// NewNotFoundError is returned when a referenced entity is absent.
func NewNotFoundError(message string, metadata map[string]any) *errors.Error {
	return errors.New(message, errors.CategoryNotFound).
		WithCode(errors.CodeNotFound).
		WithTextCode("NOT_FOUND").
		WithMetadata(metadata)
}

// NewConflictError is returned for duplicated unique values.
func NewConflictError(message, textCode string) *errors.Error {
	return errors.New(message, errors.CategoryConflict).
		WithCode(errors.CodeConflict).
		WithTextCode(textCode)
}

// WrapInternal converts unexpected failures into a 500 error.
func WrapInternal(err error, message string) *errors.Error {
	return errors.Wrap(err, errors.CategoryInternal, message).
		WithCode(errors.CodeInternal).
		WithTextCode(TextCodeInternal)
}

// IsUniqueViolation reports driver errors raised by unique constraints.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Category == errors.CategoryConflict {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// IsNotFound reports store misses from either the repository or go-errors
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, sql.ErrNoRows) ||
		repository.IsRecordNotFound(err) ||
		errors.IsNotFound(err)
}
