// Package types defines the resilience error taxonomy and transient classification
package types

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"
)

// Predefined errors. Callers match these with errors.Is; the typed wrappers
// below carry the details.
var (
	// ErrRetryExhausted indicates every retry attempt failed with a
	// retryable error
	ErrRetryExhausted = errors.New("goresilience: retry attempts exhausted")

	// ErrCircuitOpen indicates the circuit breaker rejected the call
	// without invoking the operation
	ErrCircuitOpen = errors.New("goresilience: circuit open")

	// ErrTimeout indicates the deadline elapsed before the operation
	// completed
	ErrTimeout = errors.New("goresilience: operation timed out")
)

// RetryPredicate decides whether an error is worth retrying
type RetryPredicate func(err error) bool

// RetryExhaustedError is returned when all retry attempts fail with
// retryable errors. It wraps the error of the final attempt.
type RetryExhaustedError struct {
	// Attempts is the total number of invocations made
	Attempts int

	// Err is the error returned by the last attempt
	Err error
}

// Error implements the error interface
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("goresilience: retry attempts exhausted after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the error of the final attempt
func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRetryExhausted
func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// CircuitOpenError is returned when the circuit breaker fast-fails a call.
// The wrapped operation was not invoked.
type CircuitOpenError struct {
	// RetryAfter is the remaining break duration at rejection time
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("goresilience: circuit open (retry after %v)", e.RetryAfter)
}

// Is reports whether target is ErrCircuitOpen
func (e *CircuitOpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}

// TimeoutError is returned when an operation exceeds its deadline. The
// operation may still be running until it observes its context.
type TimeoutError struct {
	// After is the configured timeout that elapsed
	After time.Duration
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("goresilience: operation timed out after %v", e.After)
}

// Is reports whether target is ErrTimeout
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// markedError forces the transient classification of a wrapped error.
type markedError struct {
	err       error
	transient bool
}

// Error implements the error interface
func (e *markedError) Error() string {
	return e.err.Error()
}

// Unwrap returns the wrapped error
func (e *markedError) Unwrap() error {
	return e.err
}

// Transient marks err as retryable regardless of its type or message.
// Returns nil if err is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &markedError{err: err, transient: true}
}

// Permanent marks err as non-retryable regardless of its type or message.
// Returns nil if err is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &markedError{err: err, transient: false}
}

// IsTransient determines if an error represents a transient failure that
// might succeed on retry. Returns true for timeouts, temporary network
// errors, connection-level I/O errors, and errors whose message indicates a
// transient condition. Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Explicit markers win over every other signal
	var marked *markedError
	if errors.As(err, &marked) {
		return marked.transient
	}

	if errors.Is(err, ErrTimeout) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Errors outside the net package may still expose the conventional
	// Timeout/Temporary methods
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return true
	}
	var tempErr interface{ Temporary() bool }
	if errors.As(err, &tempErr) && tempErr.Temporary() {
		return true
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "temporarily unavailable")
}
