package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotAuthenticated means no credential is stored; callers should send the user to login.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the backend rejected the stored credential.
	ErrSessionExpired = errors.New("session expired")
	// ErrRequestInFlight is returned when the same action is already being submitted.
	ErrRequestInFlight = errors.New("request already in progress")
	// ErrDeleteCancelled is returned when the user declines a delete confirmation.
	ErrDeleteCancelled = errors.New("delete cancelled")
	// ErrNotFound is returned when a record is not present in the local collection.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned when login is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Unauthorized reports whether the backend treated the credential as invalid.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// ValidationError is a client-side validation failure; the request is never sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuthError reports whether err means the user has to log in again.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrSessionExpired) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}
