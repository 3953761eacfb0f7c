// Package apperr defines the application error taxonomy. Every domain rule
// violation surfaces as one of these typed errors; controllers map them to
// the HTTP error envelope.
package apperr

import (
	"errors"
	"net/http"
)

const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeBusinessRule   = "BUSINESS_RULE_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Status  int      `json:"-"`
	Details []string `json:"details"`
}

func (e *Error) Error() string {
	return e.Message
}

// Validation is a malformed or out-of-range input error (422).
func Validation(message string, details ...string) *Error {
	if details == nil {
		details = []string{}
	}
	return &Error{Code: CodeValidation, Message: message, Status: http.StatusUnprocessableEntity, Details: details}
}

// Authentication is a bad/missing/expired credential or token error (401).
func Authentication(message string) *Error {
	return &Error{Code: CodeAuthentication, Message: message, Status: http.StatusUnauthorized, Details: []string{}}
}

// Authorization is an insufficient-role error for an authenticated caller (403).
func Authorization(message string) *Error {
	return &Error{Code: CodeAuthorization, Message: message, Status: http.StatusForbidden, Details: []string{}}
}

// NotFound reports an absent referenced entity (404).
func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found", Status: http.StatusNotFound, Details: []string{}}
}

// Conflict reports a uniqueness violation (409).
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message, Status: http.StatusConflict, Details: []string{}}
}

// BusinessRule reports a domain-policy breach such as an invalid status
// transition (400).
func BusinessRule(message string) *Error {
	return &Error{Code: CodeBusinessRule, Message: message, Status: http.StatusBadRequest, Details: []string{}}
}

// Internal wraps an unexpected fault with a generic message (500). The
// underlying error is for server-side logging only and never leaks to the
// caller.
func Internal() *Error {
	return &Error{Code: CodeInternal, Message: "An unexpected error occurred", Status: http.StatusInternalServerError, Details: []string{}}
}

// From returns err as an *Error, wrapping unknown errors as Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal()
}
