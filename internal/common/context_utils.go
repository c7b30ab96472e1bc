package common

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
)

// RequestIDHeader carries the correlation id on outbound and inbound requests.
const RequestIDHeader = "X-Request-ID"

// WithRequestID stores a request id on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestIDFromContext extracts the request id from ctx.
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok && id != ""
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fieldName, fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateNonNegative validates integer fields that may be zero.
func ValidateNonNegative(value int, fieldName string) error {
	if value < 0 {
		return NewValidationError(fieldName, fmt.Sprintf("%s cannot be negative", fieldName))
	}
	return nil
}

// ValidateDateRange validates report date ranges
func ValidateDateRange(startDate, endDate time.Time) error {
	if startDate.IsZero() || endDate.IsZero() {
		return NewValidationError("dateRange", "start and end dates are required")
	}
	if endDate.Before(startDate) {
		return NewValidationError("dateRange", "end date cannot be before start date")
	}
	return nil
}
