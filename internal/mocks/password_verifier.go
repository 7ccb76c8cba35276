package mocks

import "errors"

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed is used when CompareFn is nil.
	ShouldSucceed bool

	CompareFn func(hashedPassword, password string) error

	// Passwords records every plaintext passed to Compare.
	Passwords []string
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.Passwords = append(m.Passwords, password)

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return errors.New("password mismatch")
}
