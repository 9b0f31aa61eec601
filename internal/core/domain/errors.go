package domain

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map these to status codes; callers use
// errors.Is against them to tell retryable failures from permanent ones.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrScoringUnavailable = errors.New("scoring unavailable")
	ErrValidation         = errors.New("validation failed")
)

// Entity errors
var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrTaskNotFound    = fmt.Errorf("task %w", ErrNotFound)
	ErrPaymentNotFound = fmt.Errorf("payment %w", ErrNotFound)
	ErrReportNotFound  = fmt.Errorf("report %w", ErrNotFound)
)

// Transition errors
var (
	ErrPaymentNotPending = fmt.Errorf("payment is not pending: %w", ErrInvalidState)
	ErrTaskRejected      = fmt.Errorf("task already rejected: %w", ErrInvalidState)
)

// Validationf builds a validation error with a formatted detail
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InvalidTransition builds an InvalidState error naming both ends of the move
func InvalidTransition(entity string, from, to interface{}) error {
	return fmt.Errorf("%s cannot move from %v to %v: %w", entity, from, to, ErrInvalidState)
}

// IsRetryable reports whether err is worth retrying by the caller
func IsRetryable(err error) bool {
	return errors.Is(err, ErrScoringUnavailable)
}
