package ease

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for the query errors returned by executors.
var (
	// ErrNotFound is returned when an operation matched no record.
	ErrNotFound = errors.New("ease: record not found")

	// ErrConstraint is returned when a statement violated a database constraint.
	ErrConstraint = errors.New("ease: constraint violation")

	// ErrConnection is returned when the executor could not reach the database.
	ErrConnection = errors.New("ease: connection failure")
)

// NotFoundError represents an error when no record matched an operation.
type NotFoundError struct {
	label  string
	column string
	value  any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.column != "" {
		return fmt.Sprintf("ease: %s not found (%s=%v)", e.label, e.column, e.value)
	}
	return fmt.Sprintf("ease: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the record label (usually the table name).
func (e *NotFoundError) Label() string {
	return e.label
}

// Column returns the filter column, if known.
func (e *NotFoundError) Column() string {
	return e.column
}

// NewNotFoundError returns a new NotFoundError for the given label.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithFilter returns a new NotFoundError with the filter that matched nothing.
func NewNotFoundErrorWithFilter(label, column string, value any) *NotFoundError {
	return &NotFoundError{label: label, column: column, value: value}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("ease: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// Is reports whether the target error matches ConstraintError.
func (e ConstraintError) Is(err error) bool {
	return err == ErrConstraint
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}

// ConnectionError represents a failure to reach or keep the database connection.
type ConnectionError struct {
	Err error
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("ease: connection failure: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches ConnectionError.
func (e *ConnectionError) Is(err error) bool {
	return err == ErrConnection
}

// NewConnectionError returns a new ConnectionError wrapping err.
func NewConnectionError(err error) *ConnectionError {
	return &ConnectionError{Err: err}
}

// IsConnectionError returns true if the error is a ConnectionError.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionError
	return errors.As(err, &e)
}
