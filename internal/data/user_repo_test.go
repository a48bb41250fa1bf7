package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/testutil"
)

func createTestUser(t *testing.T, repo *UserRepo, username string) *model.User {
	t.Helper()
	u, err := repo.Create(context.Background(), core.CreateUserParams{
		Username:     username,
		Email:        username + "@Example.JP",
		PasswordHash: "hash",
		CompanyName:  "株式会社" + username,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		u := createTestUser(t, repo, "yamato")
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "user", u.Role)
		assert.False(t, u.Approved)
		assert.Equal(t, "yamato@example.jp", u.Email)

		byID, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Username, byID.Username)

		byName, err := repo.GetByUsername(ctx, "yamato")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)

		byEmail, err := repo.GetByEmail(ctx, " YAMATO@example.jp ")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})
}

func TestUserRepo_DuplicateReportsField(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)
		createTestUser(t, repo, "sagawa")

		_, err := repo.Create(context.Background(), core.CreateUserParams{
			Username:    "sagawa",
			Email:       "other@example.jp",
			CompanyName: "other",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "username", apperrors.GetField(err))
	})
}

func TestUserRepo_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		_, err := repo.GetByID(ctx, "not-a-uuid")
		assert.True(t, apperrors.IsNotFound(err))

		_, err = repo.GetByID(ctx, uuid.NewString())
		assert.True(t, apperrors.IsNotFound(err))

		err = repo.SetApproved(ctx, uuid.NewString(), true)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUserRepo_ListFiltersAndApproval(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		a := createTestUser(t, repo, "alpha_unyu")
		createTestUser(t, repo, "beta_butsuryu")
		require.NoError(t, repo.SetApproved(ctx, a.ID, true))
		require.NoError(t, repo.SetRole(ctx, a.ID, "admin"))

		all, err := repo.List(ctx, model.UsersListOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		approved := true
		onlyApproved, err := repo.List(ctx, model.UsersListOptions{Approved: &approved})
		require.NoError(t, err)
		require.Len(t, onlyApproved, 1)
		assert.Equal(t, "admin", onlyApproved[0].Role)

		n, err := repo.Count(ctx, model.UsersListOptions{Q: "BUTSURYU"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		ids, err := repo.ApprovedIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID}, ids)
	})
}

func TestUserRepo_UpdateProfileAndPassword(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		u := createTestUser(t, repo, "seino")

		updated, err := repo.UpdateProfile(ctx, u.ID, model.ProfileUpdate{
			CompanyName: "西濃運輸",
			ContactName: " 山田 ",
			Phone:       "03-0000-0000",
		})
		require.NoError(t, err)
		assert.Equal(t, "西濃運輸", updated.CompanyName)
		assert.Equal(t, "山田", updated.ContactName)

		require.NoError(t, repo.UpdatePasswordHash(ctx, u.ID, "new-hash"))
		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)
	})
}

func TestUserRepo_Partners(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		users := NewUserRepo(db)
		cargo := NewCargoRepo(db)

		shipper := createTestUser(t, users, "shipper")
		carrier := createTestUser(t, users, "carrier")
		createTestUser(t, users, "bystander")

		c, err := cargo.Create(ctx, shipper.ID, testutil.NewCargoInput().Build())
		require.NoError(t, err)
		require.NoError(t, cargo.UpdateStatus(ctx, core.UpdateStatusParams{
			ID:        c.ID,
			Status:    model.StatusCompleted,
			PartnerID: &carrier.ID,
		}))

		forShipper, err := users.Partners(ctx, shipper.ID)
		require.NoError(t, err)
		require.Len(t, forShipper, 1)
		assert.Equal(t, carrier.ID, forShipper[0].ID)

		forCarrier, err := users.Partners(ctx, carrier.ID)
		require.NoError(t, err)
		require.Len(t, forCarrier, 1)
		assert.Equal(t, shipper.ID, forCarrier[0].ID)
	})
}
