package services

import (
	"context"
	"errors"
	"time"

	"github.com/metalex84/loginkeeper/internal/auth"
	"github.com/metalex84/loginkeeper/internal/common"
	"github.com/metalex84/loginkeeper/internal/credentials"
	"github.com/metalex84/loginkeeper/internal/logging"
)

// SessionService implements the opt-in "remember me" flow: after a sign-in
// the user may store a signed token locally, and the next start restores the
// session without asking for the password.
type SessionService struct {
	store    credentials.Store
	accounts *AuthService
	secret   []byte
	validity time.Duration
	log      logging.Logger
	now      func() time.Time
}

func NewSessionService(store credentials.Store, accounts *AuthService, secret []byte, validity time.Duration, log logging.Logger) *SessionService {
	return &SessionService{
		store:    store,
		accounts: accounts,
		secret:   secret,
		validity: validity,
		log:      log.With("component", "session"),
		now:      accounts.now,
	}
}

// Remember stores a token for username. Call only after a successful
// Authenticate.
func (s *SessionService) Remember(ctx context.Context, username string) error {
	now := s.now()
	token, err := auth.GenerateToken(username, s.secret, s.validity, now)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, credentials.Session{Username: username, Token: token, SavedAt: now.UTC()})
}

// Restore returns the remembered username when the stored token is valid and
// the account still exists and is active. A stale or unreadable session is
// cleared; one that cannot be checked because the account store is down is
// kept. common.ErrLocalDataNotAvailable means nothing was remembered.
func (s *SessionService) Restore(ctx context.Context) (string, error) {
	sess, err := s.store.Load(ctx)
	if errors.Is(err, common.ErrLocalDataCorrupted) {
		return "", s.discard(ctx, err)
	}
	if err != nil {
		return "", err
	}

	username, err := auth.GetUsernameFromToken(sess.Token, s.secret, s.now())
	if err == nil && username != sess.Username {
		err = common.ErrInvalidToken
	}
	if err != nil {
		return "", s.discard(ctx, err)
	}

	acc, err := s.accounts.FindAccount(ctx, username)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return "", s.discard(ctx, common.ErrorUnauthorized)
	case err != nil:
		s.log.Warn(ctx, "remembered session kept, account lookup failed", logging.ErrorAttrs(err)...)
		return "", err
	case !acc.Active:
		return "", s.discard(ctx, common.ErrorUnauthorized)
	}

	return username, nil
}

func (s *SessionService) discard(ctx context.Context, reason error) error {
	s.log.Info(ctx, "discarding remembered session", logging.ErrorAttrs(reason)...)
	if err := s.store.Clear(ctx); err != nil {
		return errors.Join(reason, err)
	}
	return reason
}

// Forget removes any remembered session.
func (s *SessionService) Forget(ctx context.Context) error {
	return s.store.Clear(ctx)
}
