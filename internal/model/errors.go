package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error taxonomy shared by every layer of the client.
// Callers match these with errors.Is.
var (
	// ErrUnauthenticated indicates a missing, cleared or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrLoadFailed indicates a page fetch failed. The cursor is not advanced,
	// so the same call may be retried.
	ErrLoadFailed = errors.New("load failed")

	// ErrActionFailed indicates the server rejected a mutation. Local state
	// is left unmodified.
	ErrActionFailed = errors.New("action failed")

	// ErrAlreadyInFlight indicates a duplicate action while one is pending.
	ErrAlreadyInFlight = errors.New("action already in flight")

	// ErrValidationFailed indicates client-side input checks failed before
	// any network call was made.
	ErrValidationFailed = errors.New("validation failed")
)

// ErrorCode classifies an API failure for display and logging
type ErrorCode int

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized ErrorCode = 1001
	ErrCodeLoginFailed  ErrorCode = 1004

	// Resource errors (3xxx)
	ErrCodeNotFound ErrorCode = 3001
	ErrCodeConflict ErrorCode = 3003

	// Validation errors (4xxx)
	ErrCodeValidation ErrorCode = 4001
	ErrCodeBadRequest ErrorCode = 4002
	ErrCodeRateLimit  ErrorCode = 4029

	// Internal errors (5xxx)
	ErrCodeInternal    ErrorCode = 5001
	ErrCodeExternalAPI ErrorCode = 5003
)

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed a client-side check
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationError wraps field errors so they match ErrValidationFailed
func NewValidationError(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if len(v.Errors) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(v.Errors))
	for _, fe := range v.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrValidationFailed
func (v *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Field returns the message recorded for field, if any
func (v *ValidationError) Field(name string) (string, bool) {
	for _, fe := range v.Errors {
		if fe.Field == name {
			return fe.Message, true
		}
	}
	return "", false
}

// APIError is a non-2xx response from the backend.
// The backend reports failures as {"message": "..."}.
type APIError struct {
	Status    int       `json:"-"`
	Message   string    `json:"message"`
	Code      ErrorCode `json:"-"`
	RequestID string    `json:"-"`
}

// NewAPIError builds an APIError and assigns its code from the status
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{
		Status:  status,
		Message: message,
		Code:    codeForStatus(status),
	}
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap maps a 401 onto ErrUnauthenticated
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status == http.StatusUnprocessableEntity:
		return ErrCodeValidation
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case status >= 400 && status < 500:
		return ErrCodeBadRequest
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return ErrCodeExternalAPI
	default:
		return ErrCodeInternal
	}
}
