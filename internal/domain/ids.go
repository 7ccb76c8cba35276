package domain

import (
	"fmt"
	"strconv"
)

// UserID identifies a registered user.
type UserID int64

// TaskID identifies a task.
type TaskID int64

// RequestID identifies a transcription request.
type RequestID int64

// AssignmentID identifies the join row between a request and a task.
type AssignmentID int64

// TranscriptID identifies a submitted transcript segment.
type TranscriptID int64

// DeploymentID identifies a deployment campaign.
type DeploymentID int64

func (id UserID) String() string       { return strconv.FormatInt(int64(id), 10) }
func (id TaskID) String() string       { return strconv.FormatInt(int64(id), 10) }
func (id RequestID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id AssignmentID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id TranscriptID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id DeploymentID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseUserID parses a decimal user identifier.
func ParseUserID(s string) (UserID, error) {
	v, err := parseID(s)
	return UserID(v), err
}

// ParseTaskID parses a decimal task identifier.
func ParseTaskID(s string) (TaskID, error) {
	v, err := parseID(s)
	return TaskID(v), err
}

// ParseDeploymentID parses a decimal deployment identifier.
func ParseDeploymentID(s string) (DeploymentID, error) {
	v, err := parseID(s)
	return DeploymentID(v), err
}

func parseID(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %d is not positive", ErrInvalidID, v)
	}
	return v, nil
}

// MobileNumber is the unique login handle of a user.
type MobileNumber string

// MobileOperator is the carrier a user registered with.
type MobileOperator string

// Name is a user's display name.
type Name string

// Password is a plaintext password. It only exists in memory.
type Password string

// EncryptedPassword is the keyed hash of a Password as stored in the users table.
type EncryptedPassword string

// RefreshToken is the opaque token a client exchanges for a new access token.
type RefreshToken string

// AccessToken is a signed JWT.
type AccessToken string

func (m MobileNumber) String() string { return string(m) }

// String redacts the plaintext value.
func (Password) String() string { return "[REDACTED]" }
