package models

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when request data fails validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when a write violates a uniqueness rule
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is returned for bad credentials
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrConfirmationRequired is returned when a destructive operation was not confirmed
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrRequestTooLarge is returned when a request body exceeds the size limit
	ErrRequestTooLarge = errors.New("request body too large")
)
