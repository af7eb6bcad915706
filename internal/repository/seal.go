package repository

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Key derivation parameters (argon2id, RFC 9106 second recommended option)
const (
	sealSaltSize   = 16
	argonTime      = 3
	argonMemoryKiB = 64 * 1024
	argonThreads   = 4
)

var (
	ErrSealedTokenCorrupt = errors.New("sealed token is corrupt")
	ErrWrongPassphrase    = errors.New("sealed token cannot be opened with this passphrase")
)

// Sealer encrypts tokens at rest with a passphrase. Each sealed value
// carries its own random salt and nonce.
type Sealer struct {
	passphrase []byte
	scope      []byte
}

// NewSealer creates a sealer. scope is bound as associated data so a value
// sealed for one profile cannot be replayed into another.
func NewSealer(passphrase, scope string) *Sealer {
	return &Sealer{
		passphrase: []byte(passphrase),
		scope:      []byte(scope),
	}
}

// Seal encrypts plaintext and returns base64(salt | nonce | ciphertext)
func (s *Sealer) Seal(plaintext string) (string, error) {
	salt := make([]byte, sealSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), s.scope)
	return base64.StdEncoding.EncodeToString(append(salt, sealed...)), nil
}

// Open reverses Seal
func (s *Sealer) Open(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrSealedTokenCorrupt
	}
	if len(raw) < sealSaltSize+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return "", ErrSealedTokenCorrupt
	}

	salt, rest := raw[:sealSaltSize], raw[sealSaltSize:]
	nonce, ciphertext := rest[:chacha20poly1305.NonceSizeX], rest[chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, s.scope)
	if err != nil {
		return "", ErrWrongPassphrase
	}
	return string(plaintext), nil
}

func (s *Sealer) deriveKey(salt []byte) []byte {
	return argon2.IDKey(s.passphrase, salt, argonTime, argonMemoryKiB, argonThreads, chacha20poly1305.KeySize)
}
