package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these
// onto HTTP status codes, everything else surfaces as a 500.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrForbidden        = errors.New("operation not permitted")
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("data store unavailable")
)
