// Package errors provides structured error handling for the application.
// Every failure that crosses a service boundary is an *AppError carrying a
// typed code; HTTP handlers map codes to status lines and serialize the
// client-safe message as {"detail": ...}.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes for the application's failure taxonomy
const (
	// Client errors (4xx)
	CodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeCSRFMismatch       ErrorCode = "CSRF_MISMATCH"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeUsernameTaken      ErrorCode = "USERNAME_TAKEN"
	CodeConflict           ErrorCode = "CONFLICT"
	CodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeValidationFailed:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeCSRFMismatch:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUsernameTaken, CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// Predefined error constructors for common scenarios

// NewValidationError creates a validation error; details is the client-safe
// explanation of which field failed and why.
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, details, "")
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Not authenticated"
	}
	return NewAppError(CodeUnauthorized, message, "")
}

// NewInvalidCredentialsError creates an invalid credentials error.
// The message is deliberately generic: it must not reveal whether the
// username exists or the password was wrong.
func NewInvalidCredentialsError() *AppError {
	return NewAppError(
		CodeInvalidCredentials,
		"Invalid username or password",
		"",
	)
}

// NewCSRFMismatchError creates a CSRF validation failure error
func NewCSRFMismatchError() *AppError {
	return NewAppError(
		CodeCSRFMismatch,
		"CSRF token missing or invalid",
		"",
	)
}

// NewNotFoundError creates a not found error. The same error is used whether
// the resource is absent or owned by someone else, so existence never leaks.
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewUsernameTakenError creates a username conflict error
func NewUsernameTakenError() *AppError {
	return NewAppError(
		CodeUsernameTaken,
		"Username is already taken",
		"",
	)
}

// NewConflictError creates a concurrent modification conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(CodeConflict, message, "")
}

// NewTooManyRequestsError creates a rate limit error
func NewTooManyRequestsError() *AppError {
	return NewAppError(
		CodeTooManyRequests,
		"Too many requests. Please slow down and try again.",
		"",
	)
}

// NewUpstreamUnavailableError creates an error for a failed call to an
// external service. The cause is logged server-side, never serialized.
func NewUpstreamUnavailableError(service string, cause error) *AppError {
	return NewAppError(
		CodeUpstreamUnavailable,
		"Recipe generation service is temporarily unavailable. Please try again later.",
		fmt.Sprintf("call to %s failed", service),
	).WithCause(cause)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error carries a specific error code, unwrapping as needed
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, unwrapping as needed.
// Errors that are not AppErrors are treated as internal.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface. Each message already names its
// field, so a multi-field failure reads as a plain joined sentence.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	if len(v) == 1 {
		return v[0].Message
	}

	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}

	return strings.Join(messages, "; ")
}

// NewValidationErrors creates a validation error from field-level failures
func NewValidationErrors(errors []ValidationError) *AppError {
	validationErrs := ValidationErrors(errors)

	return NewAppError(
		CodeValidationFailed,
		validationErrs.Error(),
		"",
	).WithMetadata("validation_errors", validationErrs)
}

// ErrorResponse is the JSON error body returned to clients. Every error
// surface in the API uses this single shape.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ToErrorResponse converts an AppError to its client-facing response. Only
// the message travels; codes, metadata and causes stay server-side.
func ToErrorResponse(err *AppError) ErrorResponse {
	return ErrorResponse{Detail: err.Message}
}
