// Package user provides use cases for registering, authenticating and
// listing user accounts.
package user

import "errors"

// Sentinel errors for user use case operations.
var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidUserID indicates that the provided user ID is not positive.
	ErrInvalidUserID = errors.New("invalid user ID")

	// ErrEmailTaken indicates that the email is already registered.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
