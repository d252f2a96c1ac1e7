package filecab

import "errors"

var (
	// ErrNotFound is returned when a resource does not exist or is not
	// visible to the requester. Foreign-owned and nonexistent resources are
	// deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when credentials or a session token are
	// missing, invalid, or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidOperation is returned when a request is structurally valid
	// but semantically disallowed, such as reading a folder's content.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrStorage is returned when a blob write or read fails.
	ErrStorage = errors.New("storage failure")
	// ErrStoreUnavailable is returned when a backing store is unreachable.
	// Fatal for the current request, never retried.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError carries the exact user-facing reason for a rejected
// request body. The reason string is part of the API contract.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError returns a ValidationError with the given reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
