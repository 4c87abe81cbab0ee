// Package errors defines common error types for the boxtree tooling.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown              = "UNKNOWN_ERROR"
	CodeTreeNotPruned        = "TREE_NOT_PRUNED"
	CodeUnsupportedDimension = "UNSUPPORTED_DIMENSION"
	CodeLevelStackOverflow   = "LEVEL_STACK_OVERFLOW"
	CodeCancelled            = "CANCELLED"
	CodeInvalidTree          = "INVALID_TREE"
	CodeConfigError          = "CONFIG_ERROR"
	CodeDatabaseError        = "DATABASE_ERROR"
	CodeStorageError         = "STORAGE_ERROR"
	CodeExportError          = "EXPORT_ERROR"
	CodePlotError            = "PLOT_ERROR"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrTreeNotPruned        = New(CodeTreeNotPruned, "tree is not pruned")
	ErrUnsupportedDimension = New(CodeUnsupportedDimension, "unsupported dimension")
	ErrLevelStackOverflow   = New(CodeLevelStackOverflow, "level stack overflow")
	ErrCancelled            = New(CodeCancelled, "build cancelled")
	ErrInvalidTree          = New(CodeInvalidTree, "invalid tree")
	ErrConfigError          = New(CodeConfigError, "configuration error")
	ErrDatabaseError        = New(CodeDatabaseError, "database error")
	ErrStorageError         = New(CodeStorageError, "storage error")
	ErrExportError          = New(CodeExportError, "export error")
	ErrPlotError            = New(CodePlotError, "plot error")
)

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsInvalidTree checks if the error is an invalid tree error.
func IsInvalidTree(err error) bool {
	return errors.Is(err, ErrInvalidTree)
}

// IsDatabaseError checks if the error is a database error.
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabaseError)
}

// IsStorageError checks if the error is a storage error.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
