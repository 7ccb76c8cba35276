package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is a registered transcriber. The is_admin flag unlocks task distribution.
type User struct {
	ID           UserID
	Name         Name
	Mobile       MobileNumber
	Operator     MobileOperator
	Password     EncryptedPassword
	RefreshToken *RefreshToken
	IsAdmin      bool
	CreatedAt    time.Time
}

// Registration carries the fields a client submits to create an account.
type Registration struct {
	Mobile   MobileNumber
	Operator MobileOperator
	Name     Name
	Password Password
}

// Validate checks that every registration field is present.
func (r Registration) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"mobile", string(r.Mobile)},
		{"operator", string(r.Operator)},
		{"name", string(r.Name)},
		{"password", string(r.Password)},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrEmptyField, f.name)
		}
	}
	return nil
}
