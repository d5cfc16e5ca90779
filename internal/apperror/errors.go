// Package apperror provides domain-specific error types for the storefront.
// These errors carry an HTTP status code, a machine-readable kind and a
// user-safe message. The Echo error handler maps them to JSON responses.
//
// NEVER return raw database or infrastructure errors to the client. Always
// wrap them in an apperror type or return a generic internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kinds reported to clients in the "error" field of a failure response.
const (
	TypeMissingFields       = "missing_fields"
	TypeInvalidEmail        = "invalid_email"
	TypeEmailTaken          = "email_taken"
	TypeWeakPassword        = "weak_password"
	TypeFieldTooLong        = "field_too_long"
	TypeNotFound            = "not_found"
	TypeBadCredentials      = "bad_credentials"
	TypeBadOldPassword      = "bad_old_password"
	TypePasswordMismatch    = "password_mismatch"
	TypeInvalidOrExpired    = "invalid_or_expired_code"
	TypeAuthRequired        = "auth_required"
	TypeForbidden           = "forbidden"
	TypeMailDeliveryFailed  = "mail_delivery_failed"
	TypeStoreUnavailable    = "store_unavailable"
	TypeBadRequest          = "bad_request"
	TypeTooManyRequests     = "too_many_requests"
	TypeInternal            = "internal_error"
	genericInternalMessage  = "An unexpected error occurred. Please try again."
	genericStoreUnavailable = "The service is temporarily unavailable. Please try again later."
)

// AppError is the base error type for all domain errors. It carries an
// HTTP status code, a machine-readable error type, and a human-readable
// message safe to show to the client.
type AppError struct {
	// Code is the HTTP status code written for this error. Business-rule
	// failures use 200 and signal failure in the body.
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "email_taken").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// reported builds a business-rule failure. These are answered with HTTP 200
// and success=false so clients branch on the body, not the status line.
func reported(kind, message string) *AppError {
	return &AppError{Code: http.StatusOK, Type: kind, Message: message}
}

// --- Validation and business-rule failures ---

// NewMissingFields reports absent required request fields.
func NewMissingFields(message string) *AppError {
	return reported(TypeMissingFields, message)
}

// NewInvalidEmail reports a syntactically invalid email address.
func NewInvalidEmail(message string) *AppError {
	return reported(TypeInvalidEmail, message)
}

// NewEmailTaken reports that an account already uses the email.
func NewEmailTaken(message string) *AppError {
	return reported(TypeEmailTaken, message)
}

// NewWeakPassword reports a password below the minimum length.
func NewWeakPassword(message string) *AppError {
	return reported(TypeWeakPassword, message)
}

// NewFieldTooLong reports a value longer than its stored column allows.
func NewFieldTooLong(message string) *AppError {
	return reported(TypeFieldTooLong, message)
}

// NewNotFound reports a missing record.
func NewNotFound(message string) *AppError {
	return reported(TypeNotFound, message)
}

// NewBadCredentials reports a login password mismatch.
func NewBadCredentials(message string) *AppError {
	return reported(TypeBadCredentials, message)
}

// NewBadOldPassword reports a wrong current password on password change.
func NewBadOldPassword(message string) *AppError {
	return reported(TypeBadOldPassword, message)
}

// NewPasswordMismatch reports password and confirmation differing.
func NewPasswordMismatch(message string) *AppError {
	return reported(TypePasswordMismatch, message)
}

// NewInvalidOrExpiredCode reports an unknown, mismatched or expired reset code.
func NewInvalidOrExpiredCode(message string) *AppError {
	return reported(TypeInvalidOrExpired, message)
}

// NewMailDeliveryFailed reports that the mail collaborator rejected a send.
// The underlying transport error is kept for logging only.
func NewMailDeliveryFailed(message string, err error) *AppError {
	e := reported(TypeMailDeliveryFailed, message)
	e.Internal = err
	return e
}

// NewBadRequest creates a 400 Bad Request error for malformed payloads.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    TypeBadRequest,
		Message: message,
	}
}

// --- Admission failures ---

// NewAuthRequired creates a 401 error for missing or invalid sessions.
func NewAuthRequired(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    TypeAuthRequired,
		Message: message,
	}
}

// NewForbidden creates a 403 Forbidden error.
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Type:    TypeForbidden,
		Message: message,
	}
}

// NewTooManyRequests creates a 429 error for rate-limited callers.
func NewTooManyRequests(message string) *AppError {
	return &AppError{
		Code:    http.StatusTooManyRequests,
		Type:    TypeTooManyRequests,
		Message: message,
	}
}

// --- Infrastructure failures ---

// NewStoreUnavailable creates a 500 error for persistence faults. The real
// error is stored in Internal; the client sees a generic message.
func NewStoreUnavailable(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     TypeStoreUnavailable,
		Message:  genericStoreUnavailable,
		Internal: err,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     TypeInternal,
		Message:  genericInternalMessage,
		Internal: err,
	}
}

// Is reports whether err is, or wraps, an AppError of the given kind.
func Is(err error, kind string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == kind
	}
	return false
}

// SafeMessage returns the client-safe error message from an error. If the
// error is an AppError, returns its Message field (which is safe to expose).
// For any other error type, returns a generic message to prevent leaking
// internal details like table names, query structure, or stack traces.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code from an AppError, or 500 for
// any other error type.
func SafeCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// SafeType returns the kind of an AppError, or TypeInternal for any other
// error type.
func SafeType(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}
