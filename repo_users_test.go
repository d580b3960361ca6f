package auth_test

import (
	"context"
	"database/sql"
	"testing"

	auth "github.com/goliatone/go-jobportal"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, auth.Migrate(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestUsersRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := auth.NewUsersRepository(db)

	created, err := repo.Create(ctx, &auth.User{
		FullName:     "Ada Lovelace",
		Email:        "  A@X.com ",
		Phone:        "5551234",
		PasswordHash: "digest",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, auth.RoleStudent, created.Role)

	t.Run("by email", func(t *testing.T) {
		found, err := repo.GetByIdentifier(ctx, "A@x.COM")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "digest", found.PasswordHash)
	})

	t.Run("by id", func(t *testing.T) {
		found, err := repo.GetByIdentifier(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", found.Email)
	})

	t.Run("unknown", func(t *testing.T) {
		found, err := repo.GetByIdentifier(ctx, "nobody@x.com")
		assert.Nil(t, found)
		assert.True(t, repository.IsRecordNotFound(err))
		assert.True(t, auth.IsNotFound(err))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := repo.GetByIdentifier(ctx, "   ")
		assert.True(t, auth.IsNotFound(err))
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := repo.ExistsByIdentifierTx(ctx, db, "a@x.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByIdentifierTx(ctx, db, "b@x.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestUsersRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewUsersRepository(setupTestDB(t))

	_, err := repo.Create(ctx, &auth.User{FullName: "A", Email: "a@x.com", PasswordHash: "one"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &auth.User{FullName: "B", Email: "A@X.COM", PasswordHash: "two"})
	require.Error(t, err)
	assert.True(t, auth.IsUniqueViolation(err), "got %v", err)

	found, err := repo.GetByIdentifier(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "one", found.PasswordHash)
}

func TestUsersRepository_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewUsersRepository(setupTestDB(t))

	created, err := repo.Create(ctx, &auth.User{
		FullName:     "Ada",
		Email:        "a@x.com",
		Phone:        "111",
		PasswordHash: "digest",
	})
	require.NoError(t, err)

	bio := "Analyst"
	updated, err := repo.UpdateProfile(ctx, created.ID, auth.ProfileUpdate{
		Bio:    &bio,
		Skills: []string{"go", "sql"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Analyst", updated.Bio)
	assert.Equal(t, []string{"go", "sql"}, updated.Skills)
	assert.Equal(t, "Ada", updated.FullName, "unset fields are preserved")
	assert.Equal(t, "111", updated.Phone)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.Equal(t, "digest", updated.PasswordHash)

	_, err = repo.UpdateProfile(ctx, uuid.New(), auth.ProfileUpdate{Bio: &bio})
	assert.True(t, auth.IsNotFound(err))
}

func TestUserView(t *testing.T) {
	user := &auth.User{
		ID:           uuid.New(),
		FullName:     "Ada",
		Email:        "a@x.com",
		PasswordHash: "digest",
		Role:         auth.RoleRecruiter,
	}

	view := user.View()
	assert.Equal(t, user.ID.String(), view.ID)
	assert.Equal(t, auth.RoleRecruiter, view.Role)
	assert.NotNil(t, view.Profile.Skills)

	var nilUser *auth.User
	assert.Nil(t, nilUser.View())
	assert.Equal(t, "", nilUser.GetID())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, auth.SplitList(" a, b,,c ,"))
	assert.Empty(t, auth.SplitList(""))
}
