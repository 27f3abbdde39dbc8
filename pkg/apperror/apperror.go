package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Domain errors wrap one of these so callers can branch with
// errors.Is instead of inspecting messages.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Storage wraps a driver error as a storage failure, keeping the cause in the chain.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Kind returns the kind sentinel err belongs to, or nil if none.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrDuplicate, ErrConflict, ErrStorage} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// HTTPStatus maps an error onto a response status code.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrDuplicate, ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
