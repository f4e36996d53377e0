package models

import "github.com/pkg/errors"

var (
	// ErrNoRecord means the requested document does not exist.
	ErrNoRecord = errors.New("record not found")

	// ErrInvalidCredentials means a login attempt failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateIdentity means the identity key (email or provider id)
	// is already taken.
	ErrDuplicateIdentity = errors.New("identity already registered")

	// ErrAlreadyDelivered guards the one enforced order transition: a
	// Delivered order cannot change status again.
	ErrAlreadyDelivered = errors.New("order has already been delivered")
)

// ValidationError carries the validator's message for a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
