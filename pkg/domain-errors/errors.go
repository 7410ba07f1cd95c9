// Package domainerrors carries the error taxonomy shared by services and the
// HTTP layer. Services return *Error values; handlers translate the Code into a
// status via HTTPStatus and never inspect the wrapped cause.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a category of failure visible to API callers.
type Code string

const (
	// CodeUnauthorized means no recognized credential was presented.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden means a credential was presented but lacks the required role.
	CodeForbidden Code = "forbidden"
	// CodeBadRequest covers malformed input and failed business preconditions.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound means no matching record exists (or a listing is empty).
	CodeNotFound Code = "not_found"
	// CodeStoreInconsistency means a write did not produce a usable result, such as
	// an insert without a generated id or a link step that could not complete.
	CodeStoreInconsistency Code = "store_inconsistency"
	// CodeBackendUnavailable means the persistence layer itself failed.
	CodeBackendUnavailable Code = "backend_unavailable"
	CodeInternal           Code = "internal_error"
	CodeTimeout            Code = "timeout"
)

// Error is a coded domain error. Message is safe to show to clients for
// client-side codes; server-side codes are never rendered verbatim.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err (or anything it wraps) is a domain error with code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is an alias of HasCode kept for call-site readability in handlers.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// IsClientError reports whether the code is caused by the caller.
func (c Code) IsClientError() bool {
	switch c {
	case CodeUnauthorized, CodeForbidden, CodeBadRequest, CodeNotFound:
		return true
	default:
		return false
	}
}

// HTTPStatus maps a code onto the status the transport layer must return.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
