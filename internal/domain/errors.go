package domain

import "errors"

// ErrNotFound is returned by sources and services when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. non-positive amount, blank description).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthenticated is returned when an operation needs a resolved session
// user and none is available.
// Handlers should map this to HTTP 401.
var ErrUnauthenticated = errors.New("unauthenticated")
