package api

import (
	"errors"
	"fmt"
	"net/http"
)

type (
	// ErrorCode is a machine-readable classification of a request failure
	ErrorCode string

	// Error is a structured, caller-recoverable failure returned inside a
	// response envelope. Handlers never raise these as faults; the dispatcher
	// converts them into {ok:false, error:{code,message}}
	Error struct {
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	}
)

const (
	// CodeValidationFailed indicates missing or malformed input; the target
	// instance is untouched
	CodeValidationFailed ErrorCode = "ValidationFailed"

	// CodeNotFound indicates an unknown instance identifier
	CodeNotFound ErrorCode = "NotFound"

	// CodeNoSuchTransition indicates the action is not legal from the
	// instance's current state
	CodeNoSuchTransition ErrorCode = "NoSuchTransition"

	// CodeRoleNotPermitted indicates the acting role may not execute the
	// matched transition
	CodeRoleNotPermitted ErrorCode = "RoleNotPermitted"

	// CodeDerivedFieldAlreadySet indicates an attempt to regenerate a
	// write-once identifier
	CodeDerivedFieldAlreadySet ErrorCode = "DerivedFieldAlreadySet"

	// CodeRouteNotFound indicates the dispatcher could not match a route
	CodeRouteNotFound ErrorCode = "RouteNotFound"

	// CodeInternal indicates an unclassified handler failure
	CodeInternal ErrorCode = "Internal"
)

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a structured error with the given code
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsError classifies an arbitrary error. Structured errors pass through
// unchanged; anything else becomes an Internal error
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{
		Code:    CodeInternal,
		Message: err.Error(),
	}
}

// HTTPStatus maps an error code to the HTTP status reported alongside the
// envelope
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound, CodeRouteNotFound:
		return http.StatusNotFound
	case CodeNoSuchTransition:
		return http.StatusConflict
	case CodeRoleNotPermitted:
		return http.StatusForbidden
	case CodeDerivedFieldAlreadySet:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
