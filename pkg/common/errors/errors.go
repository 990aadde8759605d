package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the taskpool library

var (
	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrAlreadyStarted indicates that Start was called on something already running
	ErrAlreadyStarted = errors.New("already started")

	// ErrNotStarted indicates that an operation required a live execution handle
	ErrNotStarted = errors.New("not started")

	// ErrEmptyWait indicates a wait on a set with nothing to wait for
	ErrEmptyWait = errors.New("wait on empty set")

	// ErrDuplicateTask indicates that a task's handle is already being tracked
	ErrDuplicateTask = errors.New("task already tracked")

	// ErrUnknownHandle indicates a handle that was not produced by this executor
	ErrUnknownHandle = errors.New("handle not owned by this executor")

	// ErrReleased indicates a result fetch on a handle that was already released
	ErrReleased = errors.New("handle already released")

	// ErrDraining indicates a nested Run call while a drain is in progress
	ErrDraining = errors.New("pool is already draining")
)

// IsPrecondition returns true if the error indicates a caller precondition
// violation rather than a runtime failure. These errors are never retried;
// they point at a bug in the calling code.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrAlreadyStarted) ||
		errors.Is(err, ErrNotStarted) ||
		errors.Is(err, ErrEmptyWait) ||
		errors.Is(err, ErrDuplicateTask) ||
		errors.Is(err, ErrUnknownHandle) ||
		errors.Is(err, ErrDraining)
}

// ValidationError describes a configuration value that failed validation.
// It identifies the module and field so the caller can fix the input, and
// unwraps to ErrInvalidConfiguration for errors.Is checks.
type ValidationError struct {
	Module string
	Field  string
	Value  any
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value any, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IsValidationError returns true if err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// OperationError describes a named operation that failed for an environmental
// reason (I/O, external service). It unwraps to the underlying cause.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra detail and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}
