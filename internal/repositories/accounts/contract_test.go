package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalex84/loginkeeper/internal/common"
	"github.com/metalex84/loginkeeper/internal/models"
)

// runRepositoryContract exercises behaviour every backend must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	newAccount := func(username, email string) *models.Account {
		return &models.Account{
			Username:     username,
			Email:        email,
			PasswordHash: "hash-" + username,
			CreatedAt:    created,
			Active:       true,
		}
	}

	t.Run("insert assigns id and persists", func(t *testing.T) {
		r := newRepo(t)

		a, err := r.Insert(ctx, newAccount("alice", "alice@x.com"))
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)

		n, err := r.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := r.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, "alice@x.com", got.Email)
		assert.Equal(t, "hash-alice", got.PasswordHash)
		assert.True(t, got.CreatedAt.Equal(created))
		assert.Nil(t, got.LastAccessAt)
		assert.True(t, got.Active)
	})

	t.Run("exists checks are exact", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Insert(ctx, newAccount("alice", "alice@x.com"))
		require.NoError(t, err)

		ok, err := r.ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = r.ExistsByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = r.ExistsByEmail(ctx, "alice@x.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = r.ExistsByEmail(ctx, "bob@x.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicate username and email", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Insert(ctx, newAccount("alice", "alice@x.com"))
		require.NoError(t, err)

		_, err = r.Insert(ctx, newAccount("alice", "other@x.com"))
		require.ErrorIs(t, err, common.ErrorDuplicateUsername)
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)

		_, err = r.Insert(ctx, newAccount("bob", "alice@x.com"))
		require.ErrorIs(t, err, common.ErrorDuplicateEmail)

		n, err := r.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("find missing", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.FindByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("save updates mutable fields", func(t *testing.T) {
		r := newRepo(t)
		a, err := r.Insert(ctx, newAccount("alice", "alice@x.com"))
		require.NoError(t, err)

		access := created.Add(time.Hour)
		a.LastAccessAt = &access
		a.Active = false
		a.PasswordHash = "rehashed"
		require.NoError(t, r.Save(ctx, a))

		got, err := r.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got.LastAccessAt)
		assert.True(t, got.LastAccessAt.Equal(access))
		assert.False(t, got.Active)
		assert.Equal(t, "rehashed", got.PasswordHash)
		assert.True(t, got.CreatedAt.Equal(created), "created_at is immutable")
	})

	t.Run("save unknown account", func(t *testing.T) {
		r := newRepo(t)
		err := r.Save(ctx, &models.Account{ID: "00000000-0000-0000-0000-000000000000", Username: "ghost", Email: "g@x.com", PasswordHash: "h", CreatedAt: created})
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}
