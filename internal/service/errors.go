package service

import "errors"

// Sentinel errors returned by every service. Callers match them with
// errors.Is; the wrapped message carries the detail.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
