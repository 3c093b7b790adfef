package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUserID           = errors.New("user id is required")
	ErrInvalidDuration         = errors.New("duration must be positive")
	ErrInvalidAmount           = errors.New("amount must not be negative")
	ErrInvalidStatus           = errors.New("invalid subscription status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

func errTransition(from, to Status) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
