package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the threadpool library

var (
	// ErrQueueFull indicates that the task queue stayed full for the whole
	// submission timeout window
	ErrQueueFull = errors.New("task queue is full")

	// ErrPoolStopped indicates that an operation was attempted on a pool
	// that is not running
	ErrPoolStopped = errors.New("pool is not running")

	// ErrPoolRunning indicates that a configuration mutator was invoked
	// after the pool was started
	ErrPoolRunning = errors.New("pool is already running")

	// ErrTypeMismatch indicates that a result was extracted as a type
	// incompatible with what the job produced
	ErrTypeMismatch = errors.New("result type mismatch")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsRejected returns true if the error indicates a submission that never
// entered the task queue
func IsRejected(err error) bool {
	return errors.Is(err, ErrQueueFull) || errors.Is(err, ErrPoolStopped)
}

// IsConfiguration returns true if the error indicates a configuration
// problem rather than a runtime failure
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrPoolRunning) || errors.Is(err, ErrInvalidConfiguration)
}

// ValidationError describes a configuration field that failed validation.
// It wraps ErrInvalidConfiguration so callers can classify it with errors.Is.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
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
	if e.Hint != "" {
		return fmt.Sprintf("%s: invalid %s=%v (%s) - %s", e.Module, e.Field, e.Value, e.Reason, e.Hint)
	}
	return fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IsValidationError returns true if err is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// OperationError describes a failed operation on a library component,
// carrying the module and operation names alongside the underlying cause.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError for the given module and operation.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra context and returns the same error for chaining.
func (e *OperationError) WithContext(ctx string) *OperationError {
	e.Context = ctx
	return e
}

func (e *OperationError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s.%s failed: %v (%s)", e.Module, e.Operation, e.Cause, e.Context)
	}
	return fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}
