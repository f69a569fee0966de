package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized: the bearer token is missing, expired, or invalid.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrForbidden: the token is valid but does not own the resource.
	ErrForbidden = errors.New("api: forbidden")

	// ErrNotFound: the requested module or category does not exist. Distinct
	// from an existing-but-empty module so the caller can message the user
	// before deck construction.
	ErrNotFound = errors.New("api: not found")
)

// StatusError carries a non-2xx response that is not one of the sentinel
// cases, with the server's message field when present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: HTTP %d", e.Code)
}
