package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindExpiredToken       Kind = "EXPIRED_TOKEN"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindForbidden          Kind = "FORBIDDEN"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindDuplicateResource  Kind = "DUPLICATE_RESOURCE"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindRateLimit          Kind = "RATE_LIMIT"
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
	KindInternal           Kind = "INTERNAL_ERROR"
)

var statusByKind = map[Kind]int{
	KindValidation:         http.StatusBadRequest,
	KindInvalidCredentials: http.StatusUnauthorized,
	KindUnauthorized:       http.StatusUnauthorized,
	KindExpiredToken:       http.StatusUnauthorized,
	KindInvalidToken:       http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindNotFound:           http.StatusNotFound,
	KindConflict:           http.StatusConflict,
	KindDuplicateResource:  http.StatusConflict,
	KindInsufficientStock:  http.StatusConflict,
	KindRateLimit:          http.StatusTooManyRequests,
	KindServiceUnavailable: http.StatusServiceUnavailable,
	KindInternal:           http.StatusInternalServerError,
}

// Detail describes one offending field or rule.
type Detail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error is a classified failure that the HTTP layer renders in the response envelope.
type Error struct {
	Kind    Kind
	Message string
	Details []Detail
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Wrap attaches an underlying cause that is logged but never shown to clients.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func New(kind Kind, message string, details ...Detail) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

func Validation(message string, details ...Detail) *Error {
	return New(KindValidation, message, details...)
}

func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "Invalid email or password")
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func ExpiredToken() *Error {
	return New(KindExpiredToken, "Token has expired")
}

func InvalidToken() *Error {
	return New(KindInvalidToken, "Invalid token")
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(resource string) *Error {
	return New(KindNotFound, resource+" not found")
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Duplicate(message string) *Error {
	return New(KindDuplicateResource, message)
}

func InsufficientStock(message string) *Error {
	return New(KindInsufficientStock, message)
}

func RateLimited(message string) *Error {
	return New(KindRateLimit, message)
}

func ServiceUnavailable(message string) *Error {
	return New(KindServiceUnavailable, message)
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
