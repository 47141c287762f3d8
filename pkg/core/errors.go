// Package core provides configuration, error types and shared data types for the Jarvis relay.
package core

import (
	"errors"
	"fmt"
)

// Predefined errors for common failure scenarios.
var (
	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectionFailed indicates that a connection to the store failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrStorageOperation indicates that a storage operation failed.
	ErrStorageOperation = errors.New("storage operation failed")

	// ErrLLMOperation indicates that a language model call failed.
	ErrLLMOperation = errors.New("llm operation failed")

	// ErrTTSOperation indicates that speech synthesis failed.
	ErrTTSOperation = errors.New("speech synthesis failed")
)

// Error wraps errors with operation context.
//
// Example:
//
//	err := &Error{
//	    Op:  "Handle",
//	    Err: ErrLLMOperation,
//	}
//	// Error() returns: "jarvis: Handle: llm operation failed"
type Error struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "jarvis: <Op>: <Err>"
func (e *Error) Error() string {
	return fmt.Sprintf("jarvis: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error so errors.Is and errors.As see through it.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error wrapping the given error.
//
// If err is nil, returns nil. This allows safe error wrapping:
//
//	if err != nil {
//	    return NewError("SaveChatTurn", err)
//	}
func NewError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Wrap tags err with a sentinel kind and an operation name.
//
// The result matches both errors.Is(err, kind) and errors.Is(err, cause).
func Wrap(op string, kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{
		Op:  op,
		Err: fmt.Errorf("%w: %w", kind, cause),
	}
}
