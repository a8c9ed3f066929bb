// Package apperr defines the error taxonomy shared by services and handlers.
//
// Services wrap these sentinels with context via fmt.Errorf("%w: ...") and
// the API layer maps them to HTTP statuses with errors.Is. Store-level
// failures are not translated; they surface wrapped and land in the
// StoreUnavailable bucket at the edge.
package apperr

import "errors"

var (
	// not-found family
	ErrUserNotFound     = errors.New("user not found")
	ErrBuildingNotFound = errors.New("building not found")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrMessageNotFound  = errors.New("message not found")

	// duplicate-intent family
	ErrEmailTaken = errors.New("email already registered")

	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStoreUnavailable marks a backing-store call that failed or timed
	// out wholesale. No partial application, no retry here.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrBuildingNotFound) ||
		errors.Is(err, ErrChannelNotFound) ||
		errors.Is(err, ErrMessageNotFound)
}
