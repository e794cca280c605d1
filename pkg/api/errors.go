package api

import (
	"errors"
	"fmt"
)

// Error names classify failures for HTTP status mapping and client display.
const (
	NameInvalidRequest = "invalid_request"
	NameModelError     = "model_error"
	NameServerError    = "server_error"
	NameRateLimited    = "rate_limited"
)

// Error is the structured error carried by the terminal "error" event and
// by the non-streaming 500 body. Code holds a backend-specific code pulled
// from the underlying failure's cause chain when one exists (an HTTP status
// from the model API, a syscall name, ...); it is empty otherwise.
type Error struct {
	Code    string `json:"code,omitempty"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Name, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ErrorBody is the non-streaming error response shape.
type ErrorBody struct {
	Error   bool   `json:"error"`
	Code    string `json:"code,omitempty"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Body converts an Error into the non-streaming response shape.
func (e *Error) Body() ErrorBody {
	return ErrorBody{Error: true, Code: e.Code, Name: e.Name, Message: e.Message}
}

// NewInvalidRequestError creates an Error for malformed client input.
func NewInvalidRequestError(message string) *Error {
	return &Error{Name: NameInvalidRequest, Message: message}
}

// NewModelError creates an Error for failures contacting or streaming from
// the model backend. code may be empty when the backend gave none.
func NewModelError(code, message string) *Error {
	return &Error{Code: code, Name: NameModelError, Message: message}
}

// NewServerError creates an Error for internal failures.
func NewServerError(message string) *Error {
	return &Error{Name: NameServerError, Message: message}
}

// FromError converts an arbitrary error into an *Error, preserving an
// existing *Error found anywhere in the chain.
func FromError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewServerError(err.Error())
}
