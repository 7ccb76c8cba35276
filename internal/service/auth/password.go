package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (e.g., mismatch).
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// AdminVerifier checks HTTP Basic credentials for the admin routes against a
// configured username and bcrypt hash.
type AdminVerifier struct {
	username     string
	passwordHash string
	verifier     PasswordVerifier
}

// NewAdminVerifier validates that passwordHash is a bcrypt hash.
func NewAdminVerifier(username, passwordHash string, verifier PasswordVerifier) (*AdminVerifier, error) {
	if username == "" || passwordHash == "" {
		return nil, ErrEmptyKey
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("admin password hash is not a bcrypt hash: %w", err)
	}
	if verifier == nil {
		verifier = NewBcryptVerifier()
	}
	return &AdminVerifier{username: username, passwordHash: passwordHash, verifier: verifier}, nil
}

// Verify reports whether the credentials match.
func (a *AdminVerifier) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := a.verifier.Compare(a.passwordHash, password) == nil
	return userOK && passOK
}
