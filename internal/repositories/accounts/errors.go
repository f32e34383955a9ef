package accounts

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/metalex84/loginkeeper/internal/common"
)

// Unique constraint names shared by the SQL migrations and the GORM model.
const (
	ConstraintUsername = "accounts_username_key"
	ConstraintEmail    = "accounts_email_key"
)

// duplicateFor maps a violated unique constraint (a constraint name, or a
// driver message naming the column) to the matching sentinel.
func duplicateFor(constraint string) error {
	if strings.Contains(constraint, "email") {
		return common.ErrorDuplicateEmail
	}
	return common.ErrorDuplicateUsername
}

func duplicateError(backend, username, constraint string) error {
	return oops.
		Code("ACCOUNT_DUPLICATE").
		With("backend", backend).
		With("username", username).
		With("constraint", constraint).
		Wrap(duplicateFor(constraint))
}

func notFoundError(backend, username string) error {
	return oops.
		Code("ACCOUNT_NOT_FOUND").
		With("backend", backend).
		With("username", username).
		Wrap(common.ErrorNotFound)
}

func queryError(backend, op string, err error) error {
	return oops.
		Code("ACCOUNT_QUERY_FAILED").
		With("backend", backend).
		With("op", op).
		Wrap(err)
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
