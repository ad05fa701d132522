// Package errs defines the error kinds shared by the core services.
// Handlers map these to HTTP statuses; services return them unwrapped or
// wrapped with %w so errors.Is/As keep working.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRequest is returned when an active mentorship request
	// already exists for the exact ordered (sender, receiver) pair.
	ErrDuplicateRequest = errors.New("an active request for this mentor already exists")

	// ErrPermissionDenied is returned when the caller is not allowed to act
	// on the target document (e.g. sending into a channel they are not in).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTransientStore marks a store-level failure that may succeed on retry.
	// The core itself performs no retries.
	ErrTransientStore = errors.New("transient store failure")
)

// ValidationError reports missing or invalid input, including illegal
// status transitions.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ContentRejectedError is returned when the moderation service flags a text
// as unsafe. Reason carries the service's explanation verbatim.
type ContentRejectedError struct {
	Reason string
}

func (e *ContentRejectedError) Error() string {
	if e.Reason == "" {
		return "content rejected by moderation"
	}
	return "content rejected: " + e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsContentRejected reports whether err is a ContentRejectedError.
func IsContentRejected(err error) bool {
	var cr *ContentRejectedError
	return errors.As(err, &cr)
}
