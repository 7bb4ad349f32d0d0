package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

var (
	// ErrInvalidKeyLength is returned when a key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("key must be 32 bytes")
	// ErrCiphertextTooShort is returned when a blob is shorter than a nonce.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// DeriveTokenKey derives the 32-byte key that seals the persisted session
// token, bound to the machine through its fingerprint. A token file copied
// to another machine will not decrypt.
func DeriveTokenKey(fingerprint string) ([]byte, error) {
	h := hkdf.New(sha256.New, []byte(fingerprint), nil, []byte("fitplan-token-key"))
	out := make([]byte, 32)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Seal encrypts plaintext with AES-GCM. The random nonce is prepended to
// the returned blob.
func Seal(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return append(nonce, gcm.Seal(nil, nonce, plaintext, nil)...), nil
}

// Open decrypts a blob produced by Seal.
func Open(key, blob []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	ns := gcm.NonceSize()
	if len(blob) < ns {
		return nil, ErrCiphertextTooShort
	}
	return gcm.Open(nil, blob[:ns], blob[ns:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
