package cryptox

import (
	"github.com/samber/oops"
)

// Params selects and tunes the primary hashing algorithm.
type Params struct {
	Algorithm  string
	Argon2     Argon2Params
	BcryptCost int
}

// Policy hashes new passwords with a primary hasher and verifies any
// stored hash one of its known hashers recognises. A hash not produced by
// the primary, or produced with outdated settings, needs an upgrade.
type Policy struct {
	primary PasswordHasher
	known   []PasswordHasher
}

// NewPolicy builds a Policy. The primary hasher is always consulted first
// when recognising a stored hash.
func NewPolicy(primary PasswordHasher, legacy ...PasswordHasher) *Policy {
	known := make([]PasswordHasher, 0, len(legacy)+1)
	known = append(known, primary)
	known = append(known, legacy...)
	return &Policy{primary: primary, known: known}
}

// NewPolicyFromParams returns a Policy whose primary hasher is
// p.Algorithm and which still verifies the other two algorithms.
func NewPolicyFromParams(p Params) (*Policy, error) {
	sha := NewSHA256Hasher()
	argon := NewArgon2idHasher(p.Argon2)
	bc := NewBcryptHasher(p.BcryptCost)

	switch p.Algorithm {
	case AlgorithmSHA256, "":
		return NewPolicy(sha, argon, bc), nil
	case AlgorithmArgon2id:
		return NewPolicy(argon, bc, sha), nil
	case AlgorithmBcrypt:
		return NewPolicy(bc, argon, sha), nil
	default:
		return nil, oops.Code("HASH_UNKNOWN_ALGORITHM").With("algorithm", p.Algorithm).Errorf("unknown hash algorithm %q", p.Algorithm)
	}
}

func (p *Policy) Hash(password string) (string, error) {
	return p.primary.Hash(password)
}

func (p *Policy) Verify(password, hash string) (bool, error) {
	h := p.find(hash)
	if h == nil {
		return false, oops.Code("HASH_UNKNOWN_FORMAT").Wrap(ErrUnknownHashFormat)
	}
	return h.Verify(password, hash)
}

func (p *Policy) Recognizes(hash string) bool {
	return p.find(hash) != nil
}

func (p *Policy) NeedsUpgrade(hash string) bool {
	if !p.primary.Recognizes(hash) {
		return true
	}
	if u, ok := p.primary.(Upgrader); ok {
		return u.NeedsUpgrade(hash)
	}
	return false
}

func (p *Policy) find(hash string) PasswordHasher {
	for _, h := range p.known {
		if h.Recognizes(hash) {
			return h
		}
	}
	return nil
}
