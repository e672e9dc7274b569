// Package errors provides typed errors for process-level failures in twitter-requester.
// Library packages return plain wrapped errors; entrypoints classify them here before logging.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorType represents the category of an error.
type ErrorType string

const (
	TypeConfig     ErrorType = "config"
	TypeValidation ErrorType = "validation"
	TypeTwitter    ErrorType = "twitter"
)

// Error represents a custom error with type information and stack trace.
type Error struct {
	Type    ErrorType // The category of the error
	Message string    // A descriptive message about the error
	Err     error     // The underlying error, if any
	Stack   string    // The stack trace at the time of error creation
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error and captures the stack trace at the point of creation.
func New(errType ErrorType, message string, err error) *Error {
	stack := make([]byte, 4096)
	n := runtime.Stack(stack, false)
	return &Error{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   string(stack[:n]),
	}
}

// Wrap wraps an existing error with additional context and type information.
// It preserves the original error's stack trace if it's also an *Error.
func Wrap(err error, errType ErrorType, message string) *Error {
	var original *Error
	if stderrors.As(err, &original) {
		return &Error{
			Type:    errType,
			Message: message,
			Err:     err,
			Stack:   original.Stack,
		}
	}
	return New(errType, message, err)
}

// Is matches any *Error of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// TypeOf returns the type of the outermost *Error in err's chain, or "" if there is none.
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}
