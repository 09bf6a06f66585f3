package auth

import "errors"

var (
	// ErrNotAuthenticated means no principal is attached to the request.
	ErrNotAuthenticated = errors.New("auth: not authenticated")
	ErrInvalidToken     = errors.New("auth: invalid token")
	ErrMissingSecret    = errors.New("auth: missing jwt secret")
)
