package models

import "errors"

// Error kinds surfaced by the core. Handlers map them to HTTP statuses with
// errors.Is; anything that is none of these is treated as a storage error
// (opaque to the caller, detail logged).
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)
