package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format, signature, audience or issuer is invalid
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrEmptyKey is returned when a signing or hashing key is not configured
	ErrEmptyKey = errors.New("key must not be empty")
)
