package limits

import "errors"

var (
	ErrInvalidBody   = errors.New("invalid request body")
	ErrMissingAction = errors.New("action is required")
)
