package model

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-readable code identifying an expected failure
// mode. Callers match on codes rather than message text.
type ErrorCode string

// Input errors: the caller can fix the request and retry.
const (
	ErrInvalidPath  ErrorCode = "INVALID_PATH"
	ErrInvalidSlug  ErrorCode = "INVALID_SLUG"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
)

// Domain-state errors.
const (
	ErrMemoryNotFound    ErrorCode = "MEMORY_NOT_FOUND"
	ErrMemoryExpired     ErrorCode = "MEMORY_EXPIRED"
	ErrDestinationExists ErrorCode = "DESTINATION_EXISTS"
)

// Infrastructure errors, each wrapping an underlying cause.
const (
	ErrStorage           ErrorCode = "STORAGE_ERROR"
	ErrReadFailed        ErrorCode = "READ_FAILED"
	ErrWriteFailed       ErrorCode = "WRITE_FAILED"
	ErrIndexUpdateFailed ErrorCode = "INDEX_UPDATE_FAILED"
)

// Corruption errors: persisted data, not code, is at fault.
const (
	ErrMemoryParseFailed ErrorCode = "MEMORY_PARSE_FAILED"
	ErrIndexParseFailed  ErrorCode = "INDEX_PARSE_FAILED"
)

// Error is a structured store error: code, human message, the memory or
// category path involved when known, and an optional underlying cause.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string
	Cause   error
}

// Error implements the error interface.
// Format: "[CODE] message (path): cause", path and cause when present.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by error code, so errors.Is(err, model.NewError(code, ""))
// style sentinels work across wrapping.
func (e *Error) Is(target error) bool {
	var se *Error
	if errors.As(target, &se) {
		return e.Code == se.Code
	}
	return false
}

// NewError creates an Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewPathError creates an Error annotated with the path it concerns.
func NewPathError(code ErrorCode, message, path string) *Error {
	return &Error{Code: code, Message: message, Path: path}
}

// WrapError creates an Error wrapping an underlying cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WrapPathError creates a path-annotated Error wrapping a cause.
func WrapPathError(code ErrorCode, message, path string, cause error) *Error {
	return &Error{Code: code, Message: message, Path: path, Cause: cause}
}

// CodeOf extracts the ErrorCode from err, or ErrStorage if err is not a
// store Error. Returns "" for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrStorage
}
