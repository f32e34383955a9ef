package credentials

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/metalex84/loginkeeper/internal/common"
	"github.com/metalex84/loginkeeper/internal/cryptox"
	"github.com/metalex84/loginkeeper/internal/repositories/metadata"
)

// keySession holds nonce||ciphertext of the sealed Session.
const keySession = "remember.session"

func errNothingStored() error {
	return oops.Code("SESSION_NOT_STORED").Wrap(common.ErrLocalDataNotAvailable)
}

// EncryptedStore seals the session with AES-GCM before writing it to the
// local metadata table.
type EncryptedStore struct {
	repo metadata.Repository
	key  []byte
}

func NewEncryptedStore(repo metadata.Repository, key []byte) *EncryptedStore {
	return &EncryptedStore{repo: repo, key: key}
}

// Load returns the stored session. A value that cannot be opened matches
// common.ErrLocalDataCorrupted.
func (s *EncryptedStore) Load(ctx context.Context) (*Session, error) {
	sealed, err := s.repo.Get(ctx, keySession)
	if err != nil {
		return nil, err
	}
	if sealed == nil {
		return nil, errNothingStored()
	}

	var sess Session
	if err := cryptox.OpenJSON(sealed, s.key, &sess); err != nil {
		return nil, oops.Code("SESSION_UNREADABLE").Wrap(errors.Join(common.ErrLocalDataCorrupted, err))
	}
	return &sess, nil
}

func (s *EncryptedStore) Save(ctx context.Context, sess Session) error {
	sealed, err := cryptox.SealJSON(sess, s.key)
	if err != nil {
		return oops.Code("SESSION_SEAL_FAILED").Wrap(err)
	}
	return s.repo.Set(ctx, keySession, sealed)
}

func (s *EncryptedStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, keySession)
}
