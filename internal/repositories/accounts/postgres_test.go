package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalex84/loginkeeper/internal/common"
	"github.com/metalex84/loginkeeper/internal/models"
)

var accountColumns = []string{"id", "username", "email", "password_hash", "created_at", "last_access_at", "active"}

func newPostgresWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_FindByUsername(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	q := regexp.QuoteMeta(`FROM accounts`) + `\s+WHERE username = \$1`

	t.Run("found", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		access := created.Add(time.Minute)
		mock.ExpectQuery(q).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(accountColumns).
				AddRow("id-1", "alice", "alice@x.com", "h", created, access, true))

		a, err := r.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "id-1", a.ID)
		require.NotNil(t, a.LastAccessAt)
		assert.True(t, a.LastAccessAt.Equal(access))
		assert.True(t, a.Active)
	})

	t.Run("null last access", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		mock.ExpectQuery(q).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(accountColumns).
				AddRow("id-1", "alice", "alice@x.com", "h", created, nil, false))

		a, err := r.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Nil(t, a.LastAccessAt)
		assert.False(t, a.Active)
	})

	t.Run("not found", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

		_, err := r.FindByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		mock.ExpectQuery(q).WithArgs("alice").WillReturnError(errors.New("conn reset"))

		_, err := r.FindByUsername(ctx, "alice")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorNotFound)
		assert.Contains(t, err.Error(), "conn reset")
	})
}

func TestPostgresRepository_Exists(t *testing.T) {
	ctx := context.Background()
	r, mock := newPostgresWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM accounts WHERE username = \$1\)`).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM accounts WHERE email = \$1\)`).WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`WHERE email = \$1`).WithArgs("b@x.com").WillReturnError(errors.New("boom"))

	ok, err := r.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.ExistsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.ExistsByEmail(ctx, "b@x.com")
	assert.Error(t, err)
}

func TestPostgresRepository_Insert(t *testing.T) {
	ctx := context.Background()
	q := `INSERT INTO accounts \(id, username, email, password_hash, created_at, last_access_at, active\)`

	newAccount := func() *models.Account {
		return &models.Account{Username: "alice", Email: "alice@x.com", PasswordHash: "h", CreatedAt: time.Now(), Active: true}
	}

	t.Run("assigns id", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		mock.ExpectExec(q).
			WithArgs(sqlmock.AnyArg(), "alice", "alice@x.com", "h", sqlmock.AnyArg(), nil, true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		a, err := r.Insert(ctx, newAccount())
		require.NoError(t, err)
		assert.Len(t, a.ID, 36)
	})

	for _, tc := range []struct {
		constraint string
		want       error
	}{
		{ConstraintUsername, common.ErrorDuplicateUsername},
		{ConstraintEmail, common.ErrorDuplicateEmail},
	} {
		t.Run("unique violation "+tc.constraint, func(t *testing.T) {
			r, mock := newPostgresWithMock(t)
			mock.ExpectExec(q).WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: tc.constraint})

			_, err := r.Insert(ctx, newAccount())
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("other error", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		mock.ExpectExec(q).WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation})

		_, err := r.Insert(ctx, newAccount())
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
	})
}

func TestPostgresRepository_Save(t *testing.T) {
	ctx := context.Background()
	q := `UPDATE accounts\s+SET email = \$2, password_hash = \$3, last_access_at = \$4, active = \$5\s+WHERE id = \$1`
	access := time.Now()
	a := &models.Account{ID: "id-1", Username: "alice", Email: "alice@x.com", PasswordHash: "h", LastAccessAt: &access, Active: true}

	t.Run("ok", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		mock.ExpectExec(q).WithArgs("id-1", "alice@x.com", "h", sqlmock.AnyArg(), true).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, r.Save(ctx, a))
	})

	t.Run("no rows", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, r.Save(ctx, a), common.ErrorNotFound)
	})

	t.Run("rows affected error", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		mock.ExpectExec(q).WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))
		assert.Error(t, r.Save(ctx, a))
	})

	t.Run("exec error", func(t *testing.T) {
		r, mock := newPostgresWithMock(t)
		mock.ExpectExec(q).WillReturnError(errors.New("boom"))
		assert.Error(t, r.Save(ctx, a))
	})
}

func TestPostgresRepository_Count(t *testing.T) {
	ctx := context.Background()
	r, mock := newPostgresWithMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM accounts`).WillReturnError(errors.New("down"))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = r.Count(ctx)
	assert.Error(t, err)
}
