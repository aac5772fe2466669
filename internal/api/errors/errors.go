package errors

import (
	"fmt"
	"net/http"

	apperrors "whisper-offline/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindBadRequest         ErrorKind = "bad_request"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewConflictError creates a conflict error
func NewConflictError(code, message string) *APIError {
	return &APIError{
		Kind:    KindConflict,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// FromError maps errors from the application layer onto API errors.
// Unknown errors are returned as nil so the caller can decide.
func FromError(err error) *APIError {
	var apiErr *APIError
	switch {
	case err == nil:
		return nil
	case apperrors.As(err, &apiErr):
		return apiErr
	case apperrors.Is(err, apperrors.ErrJobAlreadyRunning):
		return NewConflictError("job_running", "a transcription is already running")
	case apperrors.Is(err, apperrors.ErrNoRunningJob):
		return NewConflictError("no_job", "no transcription is running")
	case apperrors.Is(err, apperrors.ErrNotFound):
		return &APIError{Kind: KindNotFound, Message: err.Error()}
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		return NewValidationError(err.Error(), nil)
	default:
		return nil
	}
}
