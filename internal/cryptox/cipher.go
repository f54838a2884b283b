// Package cryptox implements the reversible password cipher used by the
// identity service. Stored credentials are AES-GCM encrypted with a key
// derived from a server-held passphrase, and login compares a candidate by
// decrypting the stored value.
//
// SECURITY NOTE: reversible storage is a deliberate contract of this service
// (decrypt-and-compare instead of one-way hashing). It means a leaked cipher
// key exposes every stored password. A one-way scheme such as bcrypt would be
// the safer design; switching would break the recoverability contract, so it
// is documented rather than changed here.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gmeladze/identity-service/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32
)

var (
	// ErrMissingKey is returned by NewCipher when no passphrase is
	// configured. A misconfigured cipher must never look like a wrong
	// password, so this is a construction-time failure.
	ErrMissingKey = errors.New("cipher key is empty")

	// ErrMalformedCiphertext is returned when a stored value cannot be
	// decoded into salt, nonce and sealed payload.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
)

// Cipher encrypts and decrypts passwords with AES-256-GCM. Each encryption
// uses a fresh random salt (for argon2id key derivation) and nonce, so two
// encryptions of the same plaintext differ.
type Cipher struct {
	passphrase []byte
}

// NewCipher builds a Cipher from the configured passphrase.
func NewCipher(key string) (*Cipher, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	return &Cipher{passphrase: []byte(key)}, nil
}

func (c *Cipher) deriveKey(salt []byte) []byte {
	return argon2.IDKey(c.passphrase, salt, 1, 64*1024, 4, keySize)
}

// Encrypt seals the plaintext and returns base64(salt || nonce || sealed).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	salt := common.GenerateRandByteArray(saltSize)
	nonce := common.GenerateRandByteArray(nonceSize)

	key := c.deriveKey(salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating gcm: %w", err)
	}

	sealed := aesgcm.Seal(nil, nonce, []byte(plaintext), nil)

	buf := make([]byte, 0, saltSize+nonceSize+len(sealed))
	buf = append(buf, salt...)
	buf = append(buf, nonce...)
	buf = append(buf, sealed...)

	return base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt reverses Encrypt. It fails if the value is malformed, was sealed
// under a different passphrase, or was tampered with.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	if len(raw) < saltSize+nonceSize {
		return "", ErrMalformedCiphertext
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+nonceSize]
	sealed := raw[saltSize+nonceSize:]

	key := c.deriveKey(salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating gcm: %w", err)
	}

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("opening ciphertext: %w", err)
	}

	return string(plaintext), nil
}

// Compare reports whether plaintext matches the stored ciphertext. Any
// decryption failure counts as a mismatch; the equality check itself is
// constant-time.
func (c *Cipher) Compare(plaintext, ciphertext string) bool {
	decrypted, err := c.Decrypt(ciphertext)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plaintext), []byte(decrypted)) == 1
}
