package limits

import "errors"

var (
	// ErrInvalidAction is returned for action names outside the gated set.
	ErrInvalidAction = errors.New("limits.errors.invalid_action")
	// ErrFailedToCountUsage wraps usage counter failures, timeouts included.
	// It means "could not determine", never "not permitted".
	ErrFailedToCountUsage = errors.New("limits.errors.failed_to_count_usage")
	ErrInvalidTimezone    = errors.New("limits.errors.invalid_timezone")
)
