package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the credential store
type Users interface {
	repository.Repository[*User]

	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	ExistsByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string) (bool, error)

	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error)
	UpdateProfileTx(ctx context.Context, tx bun.IDB, id uuid.UUID, update ProfileUpdate) (*User, error)
}

// ProfileUpdate holds the optional profile fields. Nil fields are left as is.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	Bio      *string
	Skills   []string
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

// RegisterTx inserts a new credential, the email is stored normalized
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	if user == nil {
		return nil, ErrUnableToParseData
	}
	user.Email = NormalizeIdentifier(user.Email)
	return a.CreateTx(ctx, tx, user)
}

// GetByIdentifier looks a user up by email, or by id when given a UUID
func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

func (a *users) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	column, value := "email", NormalizeIdentifier(identifier)
	if id, err := uuid.Parse(value); err == nil {
		column, value = "id", id.String()
	}

	if value == "" {
		return nil, repository.NewRecordNotFound()
	}

	record := &User{}
	q := tx.NewSelect().Model(record)
	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"identifier": identifier,
				})
		}
		return nil, err
	}

	return record, nil
}

// ExistsByIdentifierTx reports whether an email is already registered
func (a *users) ExistsByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string) (bool, error) {
	return tx.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", NormalizeIdentifier(identifier)).
		Exists(ctx)
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *users) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error) {
	return a.UpdateProfileTx(ctx, a.db, id, update)
}

// UpdateProfileTx writes only profile columns, email and digest are never touched
func (a *users) UpdateProfileTx(ctx context.Context, tx bun.IDB, id uuid.UUID, update ProfileUpdate) (*User, error) {
	record := &User{ID: id}
	columns := make([]string, 0, 5)

	if update.FullName != nil {
		record.FullName = *update.FullName
		columns = append(columns, "full_name")
	}
	if update.Phone != nil {
		record.Phone = *update.Phone
		columns = append(columns, "phone_number")
	}
	if update.Bio != nil {
		record.Bio = *update.Bio
		columns = append(columns, "bio")
	}
	if update.Skills != nil {
		record.Skills = update.Skills
		columns = append(columns, "skills")
	}

	if len(columns) > 0 {
		now := time.Now().UTC()
		record.UpdatedAt = &now
		columns = append(columns, "updated_at")

		res, err := tx.NewUpdate().
			Model(record).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
	}

	return a.GetByIdentifierTx(ctx, tx, id.String())
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.Email = NormalizeIdentifier(record.Email)

	if record.Role == "" {
		record.Role = RoleStudent
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
