package core

import (
	"errors"
	"fmt"
)

// Error is the canonical error shape surfaced by retouch components.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrInvalidRequest marks caller mistakes (bad arguments, nil inputs).
	ErrInvalidRequest ErrorType = "invalid_request_error"

	// ErrNotReady marks operations invoked before a required resource
	// (image, canvas layer, audio context) finished initializing.
	ErrNotReady ErrorType = "not_ready_error"

	// ErrPermission marks denied access to a local resource, typically the
	// microphone.
	ErrPermission ErrorType = "permission_error"

	// ErrTransport marks remote connect/send/receive failures.
	ErrTransport ErrorType = "transport_error"

	// ErrProcessing marks a remote call that succeeded but returned no
	// usable result for a given input.
	ErrProcessing ErrorType = "processing_error"
)

// NewInvalidRequestError creates an invalid request error.
func NewInvalidRequestError(message string) *Error {
	return &Error{Type: ErrInvalidRequest, Message: message}
}

// NewNotReadyError creates a not ready error.
func NewNotReadyError(message string) *Error {
	return &Error{Type: ErrNotReady, Message: message}
}

// NewPermissionError creates a permission error.
func NewPermissionError(message string) *Error {
	return &Error{Type: ErrPermission, Message: message}
}

// NewTransportError creates a transport error wrapping the underlying cause.
func NewTransportError(op string, underlying error) *Error {
	return &Error{
		Type:    ErrTransport,
		Message: fmt.Sprintf("%s: %v", op, underlying),
	}
}

// NewProcessingError creates a processing error.
func NewProcessingError(message string) *Error {
	return &Error{Type: ErrProcessing, Message: message}
}

// IsType reports whether err is (or wraps) an *Error of the given type.
func IsType(err error, t ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == t
}
