package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by every layer. Callers check them with errors.Is.
var (
	// ErrValidation is returned when input is malformed or semantically invalid,
	// e.g. an event ending before it starts or a non-integer timezone offset.
	// This is usually wrapped by a *ValidationError naming the field.
	ErrValidation = errors.New("validation failed")

	// ErrOverlap is returned when an event collides with an existing one.
	ErrOverlap = errors.New("event overlaps with an existing event")

	// ErrNotFound is returned when a referenced event, calendar or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUser is returned when a username is already registered.
	ErrDuplicateUser = errors.New("username already exists")

	// ErrAccessDenied is returned when the visibility rule rejects an actor.
	ErrAccessDenied = errors.New("access denied")

	// ErrNoSession is returned when an operation requires an authenticated actor.
	ErrNoSession = errors.New("no active session")
)

// Entity-specific not found errors.
var (
	ErrEventNotFound    = fmt.Errorf("%w: event", ErrNotFound)
	ErrCalendarNotFound = fmt.Errorf("%w: calendar", ErrNotFound)
)

// ValidationError describes which field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Message)
	}
	return fmt.Sprintf("%v: %s %s", e.Err, e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError. A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// OverlapError reports the existing event an insertion collided with.
type OverlapError struct {
	Conflict EventSnapshot
}

// Error implements the error interface.
func (e *OverlapError) Error() string {
	return fmt.Sprintf("%v: %q [%s - %s]",
		ErrOverlap,
		e.Conflict.Title,
		e.Conflict.Start.Format(TimeLayout),
		e.Conflict.End.Format(TimeLayout))
}

// Unwrap returns ErrOverlap.
func (e *OverlapError) Unwrap() error {
	return ErrOverlap
}
