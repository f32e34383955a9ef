// Package services contains the account use cases. This file implements
// AuthService: registration, sign-in, account lookup and a connectivity
// probe. Every operation returns a Result; repository faults are logged and
// reported through Result, never returned as errors or panics.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/metalex84/loginkeeper/internal/common"
	"github.com/metalex84/loginkeeper/internal/cryptox"
	"github.com/metalex84/loginkeeper/internal/logging"
	"github.com/metalex84/loginkeeper/internal/models"
	"github.com/metalex84/loginkeeper/internal/repositories/accounts"
	"github.com/metalex84/loginkeeper/internal/repositories/repomanager"
)

// User-facing messages.
const (
	MsgRegistered          = "Account registered successfully."
	MsgDuplicateUsername   = "Username is already taken."
	MsgDuplicateEmail      = "Email address is already registered."
	MsgNotFoundOrInactive  = "Account not found or inactive."
	MsgWrongPassword       = "Incorrect password."
	MsgSignedIn            = "Signed in successfully."
	MsgInvalidCredentials  = "Invalid username or password."
	MsgThrottled           = "Too many sign-in attempts. Try again later."
	msgRegisterFault       = "Error registering account: %v"
	msgAuthenticateFault   = "Error validating credentials: %v"
	msgConnectionOK        = "Connection successful. Registered accounts: %d"
	msgConnectionFault     = "Connection error: %v"
	dummyPasswordForTiming = "loginkeeper-timing-equalizer"
)

// Result is the outcome of an AuthService operation. Err is set only for
// KindRepositoryFault.
type Result struct {
	Success bool
	Kind    common.Kind
	Message string
	Err     error
}

func succeeded(msg string) Result {
	return Result{Success: true, Kind: common.KindOK, Message: msg}
}

func failed(kind common.Kind, msg string) Result {
	return Result{Kind: kind, Message: msg}
}

func fault(format string, err error) Result {
	return Result{Kind: common.KindRepositoryFault, Message: fmt.Sprintf(format, err), Err: err}
}

// Option configures an AuthService.
type Option func(*AuthService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// WithThrottle limits sign-in attempts per username to perSecond with the
// given burst. A non-positive rate disables throttling.
func WithThrottle(perSecond float64, burst int) Option {
	return func(s *AuthService) {
		if perSecond <= 0 {
			s.throttle = nil
			return
		}
		s.throttle = newLoginThrottle(perSecond, burst)
	}
}

// WithGenericCredentialErrors reports unknown users, inactive accounts and
// wrong passwords with a single message and KindInvalidCredentials.
func WithGenericCredentialErrors(enabled bool) Option {
	return func(s *AuthService) { s.generic = enabled }
}

// AuthService registers and authenticates accounts. Callers are expected to
// run the validation checks on raw input first.
type AuthService struct {
	manager  repomanager.RepositoryManager
	hasher   cryptox.PasswordHasher
	log      logging.Logger
	now      func() time.Time
	throttle *loginThrottle
	generic  bool
	dummy    string
}

// NewAuthService constructs an AuthService over manager using hasher for
// password storage.
func NewAuthService(manager repomanager.RepositoryManager, hasher cryptox.PasswordHasher, log logging.Logger, opts ...Option) *AuthService {
	s := &AuthService{
		manager: manager,
		hasher:  hasher,
		log:     log.With("component", "auth"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// verified against when the account is missing so both paths cost the same
	s.dummy, _ = hasher.Hash(dummyPasswordForTiming)

	return s
}

// Hash returns the storable form of password under the configured hasher.
func (s *AuthService) Hash(password string) (string, error) {
	return s.hasher.Hash(password)
}

// Register creates an active account. Duplicate usernames and emails are
// reported as business failures, whether found by the existence checks or
// by a unique index at insert time.
func (s *AuthService) Register(ctx context.Context, username, email, password string) Result {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "hashing password failed", logging.ErrorAttrs(err)...)
		return fault(msgRegisterFault, err)
	}

	var res Result
	err = s.manager.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
		taken, err := repo.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			res = failed(common.KindDuplicateUsername, MsgDuplicateUsername)
			return nil
		}

		taken, err = repo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			res = failed(common.KindDuplicateEmail, MsgDuplicateEmail)
			return nil
		}

		_, err = repo.Insert(ctx, &models.Account{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    s.now().UTC(),
			Active:       true,
		})
		if err != nil {
			return err
		}

		res = succeeded(MsgRegistered)
		return nil
	})

	switch {
	case errors.Is(err, common.ErrorDuplicateUsername):
		res = failed(common.KindDuplicateUsername, MsgDuplicateUsername)
	case errors.Is(err, common.ErrorDuplicateEmail):
		res = failed(common.KindDuplicateEmail, MsgDuplicateEmail)
	case err != nil:
		s.log.Error(ctx, "registration failed", append(logging.ErrorAttrs(err), "username", username)...)
		return fault(msgRegisterFault, err)
	}

	if res.Success {
		s.log.Info(ctx, "account registered", "username", username)
	} else {
		s.log.Warn(ctx, "registration rejected", "username", username, "kind", res.Kind)
	}
	return res
}

// Authenticate checks password against the stored hash of an active
// account. On success lastAccessAt is set, and an outdated hash is replaced
// with one made by the current hasher.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) Result {
	if s.throttle != nil && !s.throttle.Allow(username, s.now()) {
		s.log.Warn(ctx, "sign-in throttled", "username", username)
		return failed(common.KindThrottled, MsgThrottled)
	}

	var res Result
	err := s.manager.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
		acc, err := repo.FindByUsername(ctx, username)
		if errors.Is(err, common.ErrorNotFound) {
			s.burnVerify(password)
			res = s.credentialFailure(common.KindNotFoundOrInactive, MsgNotFoundOrInactive)
			return nil
		}
		if err != nil {
			return err
		}

		if !acc.Active {
			s.burnVerify(password)
			res = s.credentialFailure(common.KindNotFoundOrInactive, MsgNotFoundOrInactive)
			return nil
		}

		match, err := s.hasher.Verify(password, acc.PasswordHash)
		if err != nil {
			return err
		}
		if !match {
			res = s.credentialFailure(common.KindWrongPassword, MsgWrongPassword)
			return nil
		}

		now := s.now().UTC()
		if now.Before(acc.CreatedAt) {
			now = acc.CreatedAt
		}
		acc.LastAccessAt = &now

		if u, ok := s.hasher.(cryptox.Upgrader); ok && u.NeedsUpgrade(acc.PasswordHash) {
			if rehashed, err := s.hasher.Hash(password); err == nil {
				acc.PasswordHash = rehashed
				s.log.Info(ctx, "password hash upgraded", "username", username)
			}
		}

		if err := repo.Save(ctx, acc); err != nil {
			return err
		}

		res = succeeded(MsgSignedIn)
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "authentication failed", append(logging.ErrorAttrs(err), "username", username)...)
		return fault(msgAuthenticateFault, err)
	}

	if res.Success {
		s.log.Info(ctx, "signed in", "username", username)
	} else {
		s.log.Warn(ctx, "sign-in rejected", "username", username, "kind", res.Kind)
	}
	return res
}

func (s *AuthService) credentialFailure(kind common.Kind, msg string) Result {
	if s.generic {
		return failed(common.KindInvalidCredentials, MsgInvalidCredentials)
	}
	return failed(kind, msg)
}

func (s *AuthService) burnVerify(password string) {
	if s.dummy != "" {
		_, _ = s.hasher.Verify(password, s.dummy)
	}
}

// FindAccount returns the account for username. A missing account matches
// common.ErrorNotFound; any other error is a repository fault.
func (s *AuthService) FindAccount(ctx context.Context, username string) (*models.Account, error) {
	var acc *models.Account
	err := s.manager.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
		var err error
		acc, err = repo.FindByUsername(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// GetAccount returns the account for username, or nil when it does not
// exist or the store cannot be read.
func (s *AuthService) GetAccount(ctx context.Context, username string) *models.Account {
	acc, err := s.FindAccount(ctx, username)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "account lookup failed", append(logging.ErrorAttrs(err), "username", username)...)
		}
		return nil
	}
	return acc
}

// TestConnection counts the registered accounts to prove the store is
// reachable.
func (s *AuthService) TestConnection(ctx context.Context) Result {
	var n int64
	err := s.manager.WithAccounts(ctx, func(ctx context.Context, repo accounts.Repository) error {
		var err error
		n, err = repo.Count(ctx)
		return err
	})
	if err != nil {
		s.log.Error(ctx, "connection check failed", logging.ErrorAttrs(err)...)
		return fault(msgConnectionFault, err)
	}
	return succeeded(fmt.Sprintf(msgConnectionOK, n))
}
