package membership

import "errors"

var (
	ErrInvalidUserID    = errors.New("user id is required")
	ErrInvalidDuration  = errors.New("duration must be positive")
	ErrInvalidOperation = errors.New("invalid log operation")
)
