// Package apierror provides standardized error values and response structures for the API.
// Services return *Error values carrying a Kind; handlers translate the Kind into an HTTP
// status so internal details (DB errors, stack traces) never reach the client by accident.
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of the transport.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindConflict
	KindInvalidCredential
)

// Status maps a Kind to its HTTP status code.
// Conflict reuses 400 and InvalidCredential answers 404, as the public clients expect.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound, KindInvalidCredential:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a business or collaborator failure with a user-facing message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
	// ExponerDetalle includes Err.Error() in the response body (500 only).
	ExponerDetalle bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error        { return &Error{Kind: KindValidation, Msg: msg} }
func NotFound(msg string) *Error          { return &Error{Kind: KindNotFound, Msg: msg} }
func Forbidden(msg string) *Error         { return &Error{Kind: KindForbidden, Msg: msg} }
func Unauthorized(msg string) *Error      { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Conflict(msg string) *Error          { return &Error{Kind: KindConflict, Msg: msg} }
func InvalidCredential(msg string) *Error { return &Error{Kind: KindInvalidCredential, Msg: msg} }

// Internal wraps an unexpected collaborator failure behind a generic message.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// InternalDetalle is Internal but the raw collaborator message is echoed to the client.
func InternalDetalle(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err, ExponerDetalle: true}
}

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// APIError is the canonical envelope for 4xx responses.
type APIError struct {
	Msg string `json:"msg"`
}

func New(msg string) *APIError {
	return &APIError{Msg: msg}
}

// InternalError is the envelope for 5xx responses.
type InternalError struct {
	Error   string `json:"error"`
	Detalle string `json:"detalle,omitempty"`
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Msg    string            `json:"msg"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Msg: "Error de validacion", Fields: fields}
}
