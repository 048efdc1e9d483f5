package service

import (
	"errors"

	"modelhub/internal/auth"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// Unknown users and wrong passwords both map to it.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a bearer token that failed validation or
	// names a user that no longer exists.
	ErrInvalidToken = auth.ErrInvalidToken
	// ErrInactiveUser is returned by Authorize for disabled accounts.
	ErrInactiveUser = errors.New("inactive user")
	// ErrUsernameTaken is returned when attempting to sign up with an existing username.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrStoreUnavailable wraps failures of the backing user store.
	ErrStoreUnavailable = errors.New("user store unavailable")
	// ErrValidation wraps rejected request input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidItemName is returned for catalog item names that cannot be stored.
	ErrInvalidItemName = errors.New("invalid item name")
)
