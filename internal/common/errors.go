package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrBackendUnavailable means the inference backend could not be
	// reached at all. Recoverable at the document level (skip and continue);
	// fatal for a run only if every document fails.
	ErrBackendUnavailable = errors.New("inference backend unavailable")

	// ErrSchemaViolation means an inference response did not conform to the
	// request schema. Always recoverable via the fallback policies.
	ErrSchemaViolation = errors.New("response violates schema")

	// ErrExtraction means a text source could not read a document.
	ErrExtraction = errors.New("document extraction failed")

	// ErrInvalidConfig means the run configuration is broken and no
	// inference calls should be issued.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
