package entity

import "errors"

// Sentinel errors. Services wrap them with context using %w and the HTTP
// layer maps them to status codes with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrVenueUnavailable = errors.New("venue is not available for the requested time")
	ErrInvalidState     = errors.New("invalid state")
	ErrValidation       = errors.New("validation failed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
