// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer maps them to
// appropriate HTTP status codes at the API boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindInvalidArgument indicates malformed or absent input (e.g. a bad CEP).
	KindInvalidArgument
	// KindIntegration indicates an upstream API failed or returned no usable result.
	KindIntegration
	// KindBadRequest indicates a malformed request body or parameter.
	KindBadRequest
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// String returns a short name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindIntegration:
		return "integration"
	case KindBadRequest:
		return "bad_request"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string // Operation that failed (optional)
	API     string // Upstream API name, set for KindIntegration
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindIntegration {
		return fmt.Sprintf("[%s] error in operation '%s': %s", e.API, e.Op, e.Message)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidArgument, KindBadRequest:
		return http.StatusBadRequest
	case KindIntegration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(message string) *Error {
	return New(KindInvalidArgument, message)
}

// Integration creates an upstream integration error. cause may be nil.
func Integration(api, op, message string, cause error) *Error {
	return &Error{Kind: KindIntegration, API: api, Op: op, Message: message, Err: cause}
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if the chain holds no *Error.
func GetKind(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
