// Package domain defines the core business entities and errors.
package domain

import "errors"

// Validation errors raised while constructing domain values. They never leave
// the service layer; callers translate them to an Error kind.
var (
	// ErrInvalidID is returned when an identifier is malformed or not positive.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEnum is returned when an enumerated value is not recognised.
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrEmptyField is returned when a required field is empty.
	ErrEmptyField = errors.New("required field is empty")

	// ErrInvalidLength is returned for a negative audio length.
	ErrInvalidLength = errors.New("invalid audio length")
)

// Error is the closed set of failures an operation can report to a client.
// Every service operation returns either a result or exactly one of these.
type Error int

const (
	ErrDatabase Error = iota + 1
	ErrDuplicateUser
	ErrDuplicateFile
	ErrTaskAlreadyFinished
	ErrUserNotFound
	ErrPasswordIncorrect
	ErrMobileOrPasswordIncorrect
	ErrTaskNotFound
	ErrTranscriptNotFound
	ErrFileNotFound
	ErrDeploymentNotFound
	ErrInvalidRequest
	ErrRequestFileMissing
	ErrFileNameMissing
	ErrContentLengthMissing
	ErrTaskIDInvalid
	ErrTaskIDRequired
	ErrUserIDInvalid
	ErrUserIDRequired
	ErrDeploymentIDInvalid
	ErrDeploymentIDRequired

	errorCount = int(ErrDeploymentIDRequired)
)

var errorMessages = [...]string{
	ErrDatabase:                  "An Internal Error Occurred",
	ErrDuplicateUser:             "Duplicate user",
	ErrDuplicateFile:             "File already exists",
	ErrTaskAlreadyFinished:       "Task has already been completed or rejected",
	ErrUserNotFound:              "User not found",
	ErrPasswordIncorrect:         "Password is incorrect",
	ErrMobileOrPasswordIncorrect: "Mobile number or password is incorrect",
	ErrTaskNotFound:              "Task not found",
	ErrTranscriptNotFound:        "Transcript not found",
	ErrFileNotFound:              "File not found",
	ErrDeploymentNotFound:        "Deployment not found",
	ErrInvalidRequest:            "The request is invalid",
	ErrRequestFileMissing:        "The request is missing a file",
	ErrFileNameMissing:           "The request is missing a file name",
	ErrContentLengthMissing:      "The request is missing a content length parameter: length",
	ErrTaskIDInvalid:             "The task id is invalid",
	ErrTaskIDRequired:            "The task id is required",
	ErrUserIDInvalid:             "The user id is invalid",
	ErrUserIDRequired:            "The user id is required",
	ErrDeploymentIDInvalid:       "The deployment id is invalid",
	ErrDeploymentIDRequired:      "The deployment id is required",
}

// Error implements the error interface with the client-facing message.
func (e Error) Error() string {
	if e < 1 || int(e) > errorCount {
		return "unknown error"
	}
	return errorMessages[e]
}

// AllErrors lists every Error kind in declaration order.
func AllErrors() []Error {
	all := make([]Error, 0, errorCount)
	for e := ErrDatabase; int(e) <= errorCount; e++ {
		all = append(all, e)
	}
	return all
}

// AsError extracts the Error kind carried by err. Anything that is not
// already a kind collapses to ErrDatabase.
func AsError(err error) Error {
	var kind Error
	if errors.As(err, &kind) {
		return kind
	}
	return ErrDatabase
}
