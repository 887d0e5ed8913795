// Package errors provides structured error types for liftlog.
//
// Engine queries never fail; these types are for the I/O edges (catalog
// resources, history stores) so callers can log, classify and retry
// consistently.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error identifier for categorization.
type ErrorCode string

// Error codes used throughout liftlog.
const (
	// Catalog errors
	CodeCatalogInvalid    ErrorCode = "CATALOG_INVALID"
	CodeCatalogReadFailed ErrorCode = "CATALOG_READ_FAILED"

	// History errors
	CodeHistoryReadFailed  ErrorCode = "HISTORY_READ_FAILED"
	CodeHistoryWriteFailed ErrorCode = "HISTORY_WRITE_FAILED"

	// Infrastructure errors
	CodeStorageError ErrorCode = "STORAGE_ERROR"

	// General errors
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// Error is the base error type for all liftlog errors.
type Error struct {
	Code      ErrorCode         // Unique error code for categorization
	Message   string            // Human-readable error message
	Cause     error             // Underlying error (if any)
	Retryable bool              // Whether the operation can be retried
	Metadata  map[string]string // Additional context
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on code so sentinels work with errors.Is after WithCause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     cause,
		Retryable: e.Retryable,
		Metadata:  e.Metadata,
	}
}

// WithMetadata adds contextual metadata.
func (e *Error) WithMetadata(key, value string) *Error {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	return &Error{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  meta,
	}
}

// Pre-defined sentinel errors for common cases.
// Use these with errors.Is() or wrap them with .WithCause().
var (
	ErrCatalogInvalid    = &Error{Code: CodeCatalogInvalid, Message: "invalid catalog resource", Retryable: false}
	ErrCatalogReadFailed = &Error{Code: CodeCatalogReadFailed, Message: "catalog read failed", Retryable: true}

	ErrHistoryReadFailed  = &Error{Code: CodeHistoryReadFailed, Message: "history read failed", Retryable: true}
	ErrHistoryWriteFailed = &Error{Code: CodeHistoryWriteFailed, Message: "history write failed", Retryable: true}

	ErrStorageError = &Error{Code: CodeStorageError, Message: "storage error", Retryable: true}

	ErrValidation = &Error{Code: CodeValidationError, Message: "validation error", Retryable: false}
	ErrInternal   = &Error{Code: CodeInternalError, Message: "internal error", Retryable: false}
)

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap wraps an error with an Error.
func Wrap(cause error, code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WrapRetryable wraps an error with a retryable Error.
func WrapRetryable(cause error, code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Cause: cause, Retryable: true}
}

// IsRetryable checks if an error, or anything it wraps, is retryable.
func IsRetryable(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeInternalError
}
