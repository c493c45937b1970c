package apierr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is a typed business-rule failure carrying a status-like code and a
// client-safe message. Internal details (store errors, stack traces) never
// travel inside it.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

// Error codes
const (
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeConflict           = "conflict"
	CodeInternal           = "internal_error"
)

// Validation reports malformed or missing input
func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}

// NotFound reports an absent entity
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

// InvalidCredentials reports a password mismatch
func InvalidCredentials() *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeInvalidCredentials, Message: "invalid user credentials"}
}

// Unauthorized reports a missing, expired, malformed or reused token
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: msg}
}

// Conflict reports a uniqueness violation
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeConflict, Message: msg}
}

// Internal reports a server-side failure without leaking its cause
func Internal(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: msg}
}

// Write maps err onto a JSON response. Untyped errors become an opaque 500.
func Write(c *gin.Context, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, apiErr)
		return
	}
	c.JSON(http.StatusInternalServerError, Internal("something went wrong"))
}
