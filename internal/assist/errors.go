package assist

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/llm"
)

// ErrInvalidRequest marks failures caused by the request rather than the model
var ErrInvalidRequest = errors.New("invalid assist request")

// Error is returned by every assist operation. Message is safe to show to the user.
type Error struct {
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assist %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("assist %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func invalid(op, message string) *Error {
	return &Error{Op: op, Message: message, Cause: ErrInvalidRequest}
}

// callFailed wraps a model call error with a message matching its cause
func callFailed(op string, err error) *Error {
	switch {
	case errors.Is(err, llm.ErrUnavailable):
		return &Error{Op: op, Message: "the AI assistant is temporarily unavailable, please try again later", Cause: err}
	case errors.Is(err, llm.ErrBlocked):
		return &Error{Op: op, Message: "the AI assistant declined this request, try rephrasing the input", Cause: err}
	}
	return &Error{Op: op, Message: "the AI assistant could not complete the request", Cause: err}
}

func badResponse(op string, err error) *Error {
	return &Error{Op: op, Message: "the AI assistant returned an unexpected response", Cause: err}
}
