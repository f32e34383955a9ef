// Package accounts defines the account repository contract and its storage
// backends: PostgreSQL (pgx), SQLite (modernc), GORM and in-memory.
//
// Every backend uses parameterized queries. Not-found lookups and
// unique-index violations are reported as common.ErrorNotFound,
// common.ErrorDuplicateUsername and common.ErrorDuplicateEmail (wrapped with
// oops context); anything else is a repository fault.
package accounts

import (
	"context"

	"github.com/metalex84/loginkeeper/internal/models"
)

// Repository persists accounts. Username and email comparisons are exact.
type Repository interface {
	// FindByUsername returns the account regardless of its Active flag,
	// or common.ErrorNotFound.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Insert assigns a new ID when a.ID is empty and persists a.
	Insert(ctx context.Context, a *models.Account) (*models.Account, error)
	// Save persists the mutable fields of an existing account: Email,
	// PasswordHash, LastAccessAt and Active.
	Save(ctx context.Context, a *models.Account) error
	Count(ctx context.Context) (int64, error)
}
