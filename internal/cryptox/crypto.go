// Package cryptox contains the password hashers used for stored account
// credentials and the AES-GCM helpers used for local state at rest.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"errors"

	"github.com/metalex84/loginkeeper/internal/common"
)

// KeySize is the AES-256 key length used for local state.
const KeySize = 32

// ErrMalformedCiphertext is returned when a nonce or sealed blob is too
// short to have been produced by this package.
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptJSON serializes v to JSON and encrypts it with AES-GCM.
//
// The key must be 16, 24 or 32 bytes long. A fresh random nonce is generated
// for every call and returned alongside the ciphertext.
//
// Example:
//
//	key := common.GenerateRandByteArray(cryptox.KeySize)
//	ciphertext, nonce, err := cryptox.EncryptJSON(session, key)
func EncryptJSON(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(plaintext)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// DecryptJSON reverses EncryptJSON and unmarshals the plaintext into v.
// It fails if the key, nonce or ciphertext do not match.
func DecryptJSON(ciphertext, nonce, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return ErrMalformedCiphertext
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	return json.Unmarshal(plaintext, v)
}

// SealJSON is EncryptJSON with the nonce prepended to the ciphertext, so the
// pair is stored and read back as one value.
func SealJSON(v any, key []byte) ([]byte, error) {
	ciphertext, nonce, err := EncryptJSON(v, key)
	if err != nil {
		return nil, err
	}
	return append(nonce, ciphertext...), nil
}

// OpenJSON reverses SealJSON.
func OpenJSON(sealed, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}
	n := aesgcm.NonceSize()
	if len(sealed) < n+aesgcm.Overhead() {
		return ErrMalformedCiphertext
	}
	return DecryptJSON(sealed[n:], sealed[:n], key, v)
}
