package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Algorithm names accepted by NewPolicyFromParams.
const (
	AlgorithmSHA256   = "sha256"
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

var (
	// ErrEmptyPassword is returned by salted hashers for an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrUnknownHashFormat is returned when no hasher recognises a stored hash.
	ErrUnknownHashFormat = errors.New("unrecognised password hash format")
)

// PasswordHasher turns a secret into a storable string and checks secrets
// against such strings.
type PasswordHasher interface {
	// Hash produces a storable hash of password.
	Hash(password string) (string, error)

	// Verify returns (true, nil) on match, (false, nil) on mismatch and an
	// error when hash is malformed.
	Verify(password, hash string) (bool, error)

	// Recognizes reports whether hash was produced by this algorithm.
	Recognizes(hash string) bool
}

// Upgrader is implemented by hashers that can tell a stored hash was made
// with outdated settings.
type Upgrader interface {
	NeedsUpgrade(hash string) bool
}

// SHA256Hasher is the unsalted legacy digest: lowercase hex of SHA-256 over
// the UTF-8 bytes of the password. It is kept for compatibility with
// existing account stores only.
type SHA256Hasher struct{}

func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

func (h *SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Verify compares case-insensitively in constant time.
func (h *SHA256Hasher) Verify(password, hash string) (bool, error) {
	if !h.Recognizes(hash) {
		return false, oops.Code("HASH_INVALID").With("algorithm", AlgorithmSHA256).Errorf("invalid sha256 hex digest")
	}
	computed, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(hash))) == 1, nil
}

func (h *SHA256Hasher) Recognizes(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// Argon2Params are the argon2id cost settings.
type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultArgon2Params follow the OWASP recommendation.
var DefaultArgon2Params = Argon2Params{Time: 1, MemoryKiB: 64 * 1024, Threads: 4}

const (
	argon2SaltLen = 16
	argon2KeyLen  = 32
	argon2Prefix  = "$argon2id$"

	// Upper bounds accepted from config and from stored hashes.
	maxArgon2Time      = 64
	maxArgon2MemoryKiB = 1 << 20
)

// Argon2idHasher produces PHC strings:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
type Argon2idHasher struct {
	params Argon2Params
}

// NewArgon2idHasher creates a hasher; zero fields fall back to
// DefaultArgon2Params.
func NewArgon2idHasher(p Argon2Params) *Argon2idHasher {
	if p.Time == 0 {
		p.Time = DefaultArgon2Params.Time
	}
	if p.MemoryKiB == 0 {
		p.MemoryKiB = DefaultArgon2Params.MemoryKiB
	}
	if p.Threads == 0 {
		p.Threads = DefaultArgon2Params.Threads
	}
	p.Time = min(p.Time, maxArgon2Time)
	p.MemoryKiB = min(p.MemoryKiB, maxArgon2MemoryKiB)
	return &Argon2idHasher{params: p}
}

func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", oops.Code("HASH_EMPTY_PASSWORD").Wrap(ErrEmptyPassword)
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("HASH_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, argon2KeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

type argon2Hash struct {
	version int
	params  Argon2Params
	salt    []byte
	key     []byte
}

func parseArgon2(encoded string) (*argon2Hash, error) {
	invalid := oops.Code("HASH_INVALID").With("algorithm", AlgorithmArgon2id)

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, invalid.Errorf("invalid hash format")
	}
	if parts[1] != AlgorithmArgon2id {
		return nil, invalid.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	out := &argon2Hash{}
	if _, err := fmt.Sscanf(parts[2], "v=%d", &out.version); err != nil {
		return nil, invalid.Wrap(err)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, invalid.Wrap(err)
	}
	if threads == 0 || threads > 255 {
		return nil, invalid.Errorf("threads value %d out of range", threads)
	}
	if time == 0 || time > maxArgon2Time {
		return nil, invalid.Errorf("time value %d out of range", time)
	}
	if memory > maxArgon2MemoryKiB {
		return nil, invalid.Errorf("memory value %d out of range", memory)
	}
	out.params = Argon2Params{Time: time, MemoryKiB: memory, Threads: uint8(threads)}

	var err error
	if out.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, invalid.Wrap(err)
	}
	if out.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, invalid.Wrap(err)
	}
	if len(out.key) == 0 || len(out.key) > 1<<10 {
		return nil, invalid.Errorf("invalid hash key length: %d", len(out.key))
	}

	return out, nil
}

func (h *Argon2idHasher) Verify(password, encoded string) (bool, error) {
	parsed, err := parseArgon2(encoded)
	if err != nil {
		return false, err
	}

	p := parsed.params
	computed := argon2.IDKey([]byte(password), parsed.salt, p.Time, p.MemoryKiB, p.Threads, uint32(len(parsed.key)))

	return subtle.ConstantTimeCompare(computed, parsed.key) == 1, nil
}

func (h *Argon2idHasher) Recognizes(hash string) bool {
	return strings.HasPrefix(hash, argon2Prefix)
}

// NeedsUpgrade reports hashes made with other parameters or another version.
func (h *Argon2idHasher) NeedsUpgrade(hash string) bool {
	parsed, err := parseArgon2(hash)
	if err != nil {
		return true
	}
	return parsed.version != argon2.Version || parsed.params != h.params
}

// maxVerifyBcryptCost bounds the work a stored hash can demand unless the
// hasher itself is configured higher.
const maxVerifyBcryptCost = 16

// BcryptHasher wraps golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher; a cost outside bcrypt's range falls back
// to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", oops.Code("HASH_EMPTY_PASSWORD").Wrap(ErrEmptyPassword)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", oops.Code("HASH_FAILED").With("algorithm", AlgorithmBcrypt).Wrap(err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	if cost, err := bcrypt.Cost([]byte(hash)); err == nil && cost > max(h.cost, maxVerifyBcryptCost) {
		return false, oops.Code("HASH_INVALID").With("algorithm", AlgorithmBcrypt).Errorf("cost %d out of range", cost)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, oops.Code("HASH_INVALID").With("algorithm", AlgorithmBcrypt).Wrap(err)
	}
}

func (h *BcryptHasher) Recognizes(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

func (h *BcryptHasher) NeedsUpgrade(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost != h.cost
}
