// Package errors provides application-level error types and utilities.
// It defines the machine-readable error taxonomy the HTTP layer and the bot
// collaborator map to user-visible responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation_error"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeInternal   ErrorType = "internal_error"

	// Store classes
	ErrorTypeStoreLocked    ErrorType = "store_locked"
	ErrorTypeStoreIntegrity ErrorType = "store_integrity"

	// Backend classes
	ErrorTypeBackendUnavailable ErrorType = "backend_unavailable"
	ErrorTypeBackendRejected    ErrorType = "backend_rejected"

	// Edge classes
	ErrorTypeTokenInvalid        ErrorType = "token_invalid"
	ErrorTypeSubscriptionExpired ErrorType = "subscription_expired"
	ErrorTypeRateLimited         ErrorType = "rate_limited"
	ErrorTypeGuardViolation      ErrorType = "guard_violation"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error without changing the surfaced type.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

func newError(t ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message, details...)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newError(ErrorTypeConflict, http.StatusConflict, message, details...)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// NewStoreLockedError creates a transient store-lock error. Callers retry
// with backoff before surfacing this.
func NewStoreLockedError(message string, details ...string) *AppError {
	return newError(ErrorTypeStoreLocked, http.StatusServiceUnavailable, message, details...)
}

// NewStoreIntegrityError creates a referential-violation error, fatal to the
// operation.
func NewStoreIntegrityError(message string, details ...string) *AppError {
	return newError(ErrorTypeStoreIntegrity, http.StatusInternalServerError, message, details...)
}

// NewBackendUnavailableError creates a transport-failure error for a VPN
// backend call.
func NewBackendUnavailableError(message string, details ...string) *AppError {
	return newError(ErrorTypeBackendUnavailable, http.StatusBadGateway, message, details...)
}

// NewBackendRejectedError creates a non-2xx backend response error.
func NewBackendRejectedError(message string, details ...string) *AppError {
	return newError(ErrorTypeBackendRejected, http.StatusBadGateway, message, details...)
}

// NewTokenInvalidError creates a malformed-subscription-token error.
func NewTokenInvalidError(message string, details ...string) *AppError {
	return newError(ErrorTypeTokenInvalid, http.StatusBadRequest, message, details...)
}

// NewSubscriptionExpiredError creates an expired-subscription lookup error.
func NewSubscriptionExpiredError(message string, details ...string) *AppError {
	return newError(ErrorTypeSubscriptionExpired, http.StatusNotFound, message, details...)
}

// NewRateLimitedError creates a rate-limit error.
func NewRateLimitedError(message string, details ...string) *AppError {
	return newError(ErrorTypeRateLimited, http.StatusTooManyRequests, message, details...)
}

// NewGuardViolationError creates a user-deletion guard refusal carrying the
// refusal reasons in Details.
func NewGuardViolationError(message string, reasons []string) *AppError {
	return newError(ErrorTypeGuardViolation, http.StatusConflict, message, strings.Join(reasons, "; "))
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsStoreLocked checks if the error is the transient store-lock class.
func IsStoreLocked(err error) bool {
	if isType(err, ErrorTypeStoreLocked) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

// IsBackendUnavailable checks if the error is a backend transport failure.
func IsBackendUnavailable(err error) bool {
	return isType(err, ErrorTypeBackendUnavailable)
}

// IsBackendRejected checks if the error is a non-2xx backend response.
func IsBackendRejected(err error) bool {
	return isType(err, ErrorTypeBackendRejected)
}
