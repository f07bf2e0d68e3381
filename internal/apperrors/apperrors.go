// Package apperrors defines the error codes surfaced by the lifecycle
// operations and their HTTP mapping.
package apperrors

import (
	"fmt"
	"net/http"
)

// Code is the machine-readable error code.
type Code string

const (
	// ErrForbidden - the actor lacks authorization for this action on this entity.
	ErrForbidden Code = "FORBIDDEN"
	// ErrNotEligible - preconditions for the action are not met.
	ErrNotEligible Code = "NOT_ELIGIBLE"
	// ErrInvalidState - the entity is not in the required state for the transition.
	ErrInvalidState Code = "INVALID_STATE"
	// ErrConflict - the action would create a duplicate active relationship.
	ErrConflict Code = "CONFLICT"
	// ErrNotFound - the entity or relationship does not exist.
	ErrNotFound Code = "NOT_FOUND"
	// ErrInternal - unexpected failure, safe generic message for the caller.
	ErrInternal Code = "INTERNAL"
)

var statusByCode = map[Code]int{
	ErrForbidden:    http.StatusForbidden,
	ErrNotEligible:  http.StatusBadRequest,
	ErrInvalidState: http.StatusConflict,
	ErrConflict:     http.StatusConflict,
	ErrNotFound:     http.StatusNotFound,
	ErrInternal:     http.StatusInternalServerError,
}

// AppError carries a code plus a human-readable message. Authorization and
// state-conflict failures must stay distinguishable for the caller.
type AppError struct {
	Code    Code
	Message string
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus returns the HTTP status for the error code.
func (e *AppError) HTTPStatus() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New creates an AppError with a formatted message.
func New(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *AppError {
	return New(ErrForbidden, format, args...)
}

func NotEligible(format string, args ...any) *AppError {
	return New(ErrNotEligible, format, args...)
}

func InvalidState(format string, args ...any) *AppError {
	return New(ErrInvalidState, format, args...)
}

func Conflict(format string, args ...any) *AppError {
	return New(ErrConflict, format, args...)
}

func NotFound(format string, args ...any) *AppError {
	return New(ErrNotFound, format, args...)
}

func Internal() *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error, please try again"}
}
