package apperrors

import (
	"fmt"
	"net/http"
)

// Error codes surfaced in API responses.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeForbidden    = "FORBIDDEN"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// APIError is the error type services return for every expected failure.
// Handlers map it to its Status; anything else becomes a 500.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, status int) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Validation reports malformed or out-of-range input.
func Validation(message string) *APIError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// NotFound reports a missing trail, user or friendship.
func NotFound(message string) *APIError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

// Conflict reports duplicate swipes and existing friendships. The status is
// 400, not 409, to match the public API this service replaces.
func Conflict(message string) *APIError {
	return New(CodeConflict, message, http.StatusBadRequest)
}

// Forbidden reports an actor without rights over the target friendship.
func Forbidden(message string) *APIError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

// Unauthorized reports a missing or invalid identity token.
func Unauthorized(message string) *APIError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// Internal reports a storage or collaborator failure.
func Internal(message string) *APIError {
	return New(CodeInternal, message, http.StatusInternalServerError)
}
