package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/reitmaier/transcribe-api/internal/domain"
)

// Encryptor derives the stored form of a user password.
type Encryptor interface {
	Encrypt(password domain.Password) domain.EncryptedPassword
}

// HMACEncryptor hashes passwords with HMAC-SHA256 under a server-held key.
// The output is deterministic so the stored value can be matched in a query.
type HMACEncryptor struct {
	key []byte
}

var _ Encryptor = (*HMACEncryptor)(nil)

// NewEncryptor returns an HMACEncryptor keyed with key.
func NewEncryptor(key string) (*HMACEncryptor, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return &HMACEncryptor{key: []byte(key)}, nil
}

// Encrypt returns the lowercase hex HMAC-SHA256 of password.
func (e *HMACEncryptor) Encrypt(password domain.Password) domain.EncryptedPassword {
	mac := hmac.New(sha256.New, e.key)
	mac.Write([]byte(password))
	return domain.EncryptedPassword(hex.EncodeToString(mac.Sum(nil)))
}
