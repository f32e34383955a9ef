// Package credentials keeps the remember-me session on the local machine.
// Only the username and a signed token are stored, never the password.
package credentials

import (
	"context"
	"time"
)

// Session is what a remembered sign-in restores at startup.
type Session struct {
	Username string    `json:"username"`
	Token    string    `json:"token"`
	SavedAt  time.Time `json:"saved_at"`
}

// Store persists at most one remembered session. Load returns
// common.ErrLocalDataNotAvailable when nothing is stored.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// NopStore remembers nothing.
type NopStore struct{}

func (NopStore) Load(context.Context) (*Session, error) { return nil, errNothingStored() }
func (NopStore) Save(context.Context, Session) error    { return nil }
func (NopStore) Clear(context.Context) error            { return nil }
