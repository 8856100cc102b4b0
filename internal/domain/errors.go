package domain

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned when login or registration details are rejected
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when an operation needs a signed-in user
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable is returned when a backing store could not be reached
	ErrUnavailable = errors.New("temporarily unavailable")
)
