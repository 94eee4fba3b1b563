package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError carries a stable code across adapter boundaries. Domain sentinels
// stay reachable through Unwrap, so errors.Is keeps working on wrapped chains.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// GetCode returns the code of the nearest AppError in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeFetchFailed   = "FETCH_FAILED"
	CodeWriteFailed   = "WRITE_FAILED"
	CodeDatabaseError = "DATABASE_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func FetchFailed(err error, message string) *AppError {
	return &AppError{Code: CodeFetchFailed, Message: message, Cause: err}
}

func WriteFailed(err error, message string) *AppError {
	return &AppError{Code: CodeWriteFailed, Message: message, Cause: err}
}

func DatabaseError(err error, message string) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: err}
}
