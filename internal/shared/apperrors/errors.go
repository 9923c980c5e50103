package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all domain services. Controllers translate these
// into HTTP statuses; services never return raw storage errors to callers.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrDuplicate       = errors.New("duplicate entry")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAvailabilityCheckFailed means the underlying conflict query failed.
	// Callers must fail closed: an unknown window is never treated as free.
	ErrAvailabilityCheckFailed = errors.New("availability check failed")
)

// ConflictError reports an unavailable window together with the exact
// conflict counts so the caller can surface them verbatim.
type ConflictError struct {
	Reservations int
	Blackouts    int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("window unavailable: %d conflicting reservations, %d blackout periods",
		e.Reservations, e.Blackouts)
}

// IsConflict reports whether err is a ConflictError and returns it.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NotFoundf wraps ErrNotFound with a formatted description.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidStatef wraps ErrInvalidState with a formatted description.
func InvalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidState)...)
}

// InvalidArgumentf wraps ErrInvalidArgument with a formatted description.
func InvalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}

// Duplicatef wraps ErrDuplicate with a formatted description.
func Duplicatef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrDuplicate)...)
}
