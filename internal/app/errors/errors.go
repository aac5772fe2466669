package errors

import (
	stderrors "errors"
	"fmt"
)

// Pipeline error taxonomy
var (
	// Subprocess errors
	ErrLaunch           = New("executable could not be started")
	ErrNonZeroExit      = New("process exited with non-zero status")
	ErrDecodingDegraded = New("process output is not valid UTF-8")

	// Pipeline errors
	ErrResultUnreadable = New("transcript file is unreadable")
	ErrCancelled        = New("run cancelled")
	ErrInvalidRequest   = New("invalid request")

	// Job errors
	ErrJobAlreadyRunning = New("job already running")
	ErrNoRunningJob      = New("no running job")

	// Configuration errors
	ErrInvalidConfig = New("invalid configuration")

	ErrNotFound = New("not found")

	// Storage errors
	ErrQueryFailed  = New("query failed")
	ErrScanFailed   = New("scan failed")
	ErrInsertFailed = New("insert failed")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// LaunchError reports an executable the OS refused to start.
type LaunchError struct {
	Executable string
	Err        error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Executable, e.Err)
}

// Unwrap exposes both the taxonomy sentinel and the OS error.
func (e *LaunchError) Unwrap() []error {
	return []error{ErrLaunch, e.Err}
}

// ExitError reports a child that ran but returned a failing status.
type ExitError struct {
	Executable string
	ExitCode   int
	Stderr     string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Executable, e.ExitCode)
}

func (e *ExitError) Unwrap() error {
	return ErrNonZeroExit
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Helper functions for common patterns

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Wrap(Newf("%s is required", field), ErrInvalidRequest.message)
}

// NotFoundError names the missing item. It matches ErrNotFound.
type NotFoundError struct {
	ItemType   string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.ItemType, e.Identifier)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) error {
	return &NotFoundError{ItemType: itemType, Identifier: identifier}
}
