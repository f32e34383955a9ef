// Package common defines shared sentinel errors, result kinds and small
// helpers used across the loginkeeper layers. Callers should use errors.Is to
// match the error values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Unique-constraint violations, both match ErrorAlreadyExists.
	ErrorDuplicateUsername = fmt.Errorf("username %w", ErrorAlreadyExists)
	ErrorDuplicateEmail    = fmt.Errorf("email %w", ErrorAlreadyExists)

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Remember-me token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Local state errors.
	ErrLocalDataNotAvailable = errors.New("local data not available")
	ErrLocalDataCorrupted    = errors.New("local data corrupted")
)
