package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalex84/loginkeeper/internal/common"
	"github.com/metalex84/loginkeeper/internal/config"
	"github.com/metalex84/loginkeeper/internal/logging"
	"github.com/metalex84/loginkeeper/internal/models"
	"github.com/metalex84/loginkeeper/internal/repositories/accounts"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDriver = config.DriverSQLite
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "accounts.db")
	cfg.ConnectRetries = 0
	return cfg
}

func TestOpen_SQLiteRunsMigrations(t *testing.T) {
	ctx := context.Background()
	m, err := Open(ctx, sqliteConfig(t), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Ping(ctx))

	err = m.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
		return nil
	})
	require.NoError(t, err)
}

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDriver = config.DriverMemory

	m, err := Open(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &InMemoryRepositoryManager{}, m)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{DatabaseDriver: "mongo"}
	_, err := Open(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}

func TestOpen_MigrationFailureClosesStore(t *testing.T) {
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	t.Cleanup(func() { gooseUpContext = orig })

	_, err := Open(context.Background(), sqliteConfig(t), logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSQLRepositoryManager_RunMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, NewPostgresRepositoryManager(db).RunMigrations(context.Background()))
	assert.Equal(t, "postgres", gotDir)

	require.NoError(t, NewSQLiteRepositoryManager(db).RunMigrations(context.Background()))
	assert.Equal(t, "sqlite", gotDir)
}

func TestSQLRepositoryManager_WithAccounts_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	m, err := Open(ctx, sqliteConfig(t), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	insert := func(username string) func(ctx context.Context, repo accounts.Repository) error {
		return func(ctx context.Context, repo accounts.Repository) error {
			_, err := repo.Insert(ctx, &models.Account{Username: username, Email: username + "@x.com", PasswordHash: "h", Active: true})
			return err
		}
	}

	require.NoError(t, m.WithAccounts(ctx, insert("alice")))

	err = m.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
		if err := insert("bob")(ctx, repo); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	require.Panics(t, func() {
		_ = m.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
			_ = insert("carol")(ctx, repo)
			panic("kaput")
		})
	})

	err = m.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "only the committed session persists")

		_, err = repo.FindByUsername(ctx, "bob")
		assert.ErrorIs(t, err, common.ErrorNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestInMemoryRepositoryManager(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager()

	require.NoError(t, m.Ping(ctx))
	require.NoError(t, m.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
		_, err := repo.Insert(ctx, &models.Account{Username: "alice", Email: "a@x.com", PasswordHash: "h"})
		return err
	}))
	require.NoError(t, m.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
		ok, err := repo.ExistsByUsername(ctx, "alice")
		assert.True(t, ok)
		return err
	}))
	assert.NoError(t, m.Close())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, m.Ping(cancelled), context.Canceled)
}

func TestOpenState(t *testing.T) {
	ctx := context.Background()
	s, err := OpenState(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	md := s.Metadata()
	require.NoError(t, md.Set(ctx, "k", []byte("v")))
	v, err := md.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
