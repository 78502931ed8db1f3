package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates the username/password pair did not
	// match a known user. Deliberately does not reveal which half failed.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken indicates a registration attempt with an existing username
	ErrUsernameTaken = errors.New("username already taken")

	// ErrWeakPassword indicates the password does not meet the length policy
	ErrWeakPassword = errors.New("password does not meet the length requirements")
)
