package service

import "errors"

// Error taxonomy shared by all services. Handlers map these to status codes
// with errors.Is; services wrap them with %w and a human-readable message.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("invalid input")
)
