package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalex84/loginkeeper/internal/models"
)

func TestInMemoryRepository_Contract(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) Repository {
		return NewInMemoryRepository()
	})
}

func TestInMemoryRepository_NoAliasing(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()

	a := &models.Account{Username: "alice", Email: "alice@x.com", PasswordHash: "h", Active: true}
	_, err := r.Insert(ctx, a)
	require.NoError(t, err)

	a.Active = false
	got, err := r.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, got.Active, "mutating the inserted value must not leak into the store")

	got.PasswordHash = "changed"
	again, err := r.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", again.PasswordHash)
}

func TestInMemoryRepository_SaveEmailConflict(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()

	_, err := r.Insert(ctx, &models.Account{Username: "alice", Email: "alice@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	bob, err := r.Insert(ctx, &models.Account{Username: "bob", Email: "bob@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	bob.Email = "alice@x.com"
	assert.Error(t, r.Save(ctx, bob))

	bob.Email = "robert@x.com"
	require.NoError(t, r.Save(ctx, bob))

	ok, err := r.ExistsByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.False(t, ok, "old email is released")
}

func TestInMemoryRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewInMemoryRepository()
	_, err := r.Count(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
