package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	FullName  string `json:"fullname"`
	Email     string `json:"email"`
	Phone     string `json:"phoneNumber"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	UseHashid bool   `json:"-"`
}

// RegisterUserHandler creates credentials. It never issues a token.
type RegisterUserHandler struct {
	// UseHashid derives ids from the email for every registration
	UseHashid bool

	repo     RepositoryManager
	hasher   PasswordAuthenticator
	logger   Logger
	activity ActivitySink
	hashID   func(email string) (uuid.UUID, error)
}

func NewRegisterUserHandler(repo RepositoryManager, hasher PasswordAuthenticator) *RegisterUserHandler {
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultPasswordCost)
	}
	return &RegisterUserHandler{
		repo:     repo,
		hasher:   hasher,
		logger:   defLogger{},
		activity: noopActivitySink{},
		hashID:   hashid.NewUUID,
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) WithActivitySink(sink ActivitySink) *RegisterUserHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// Register persists a new credential and returns the stored user
func (h *RegisterUserHandler) Register(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	var user *User
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	email := NormalizeIdentifier(event.Email)

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := h.repo.Users().ExistsByIdentifierTx(ctx, tx, email)
		if err != nil {
			return WrapInternal(err, "failed to check identifier")
		}
		if exists {
			return ErrIdentifierTaken
		}

		hash, err := h.hasher.HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryValidation {
				return NewValidationError(map[string]string{"password": richErr.Message})
			}
			return WrapInternal(err, "failed to hash password")
		}

		record := &User{
			FullName:     event.FullName,
			Email:        email,
			Phone:        event.Phone,
			Role:         event.Role,
			PasswordHash: hash,
		}
		if event.UseHashid || h.UseHashid {
			id, err := h.hashID(email)
			if err != nil {
				h.logger.Error("derive user id", "error", err)
				return WrapInternal(err, "failed to derive user id")
			}
			record.ID = id
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, record); err != nil {
			if IsUniqueViolation(err) {
				return ErrIdentifierTaken
			}
			return WrapInternal(err, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		if IsUniqueViolation(err) {
			return nil, ErrIdentifierTaken
		}

		return nil, WrapInternal(err, "user registration transaction failed")
	}

	h.logger.Info("user registered", "user_id", user.GetID(), "role", user.Role)
	emitActivity(ctx, h.activity, h.logger, ActivityEventUserRegistered, user.GetID(), map[string]any{
		"role": user.Role,
	})

	return user, nil
}
