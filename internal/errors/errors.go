// Package errors provides a lightweight structured error type (RemoteDocsError)
// for category-based classification and retry semantics in the resolver and CLI.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of an error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"

	// External system integration errors
	CategoryNetwork ErrorCategory = "network"
	CategoryForge   ErrorCategory = "forge"
	CategoryGit     ErrorCategory = "git"
	CategoryDecode  ErrorCategory = "decode"

	// Local output and runtime errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// RemoteDocsError is a structured error with category, retryability, and context
type RemoteDocsError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"-"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for RemoteDocsError
type ContextFields map[string]any

// Error implements the error interface
func (e *RemoteDocsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *RemoteDocsError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *RemoteDocsError) WithContext(key string, value any) *RemoteDocsError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new RemoteDocsError
func New(category ErrorCategory, severity ErrorSeverity, message string) *RemoteDocsError {
	return &RemoteDocsError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new RemoteDocsError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *RemoteDocsError {
	return &RemoteDocsError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// WrapRetryable creates a new retryable RemoteDocsError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *RemoteDocsError {
	return &RemoteDocsError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// As returns the first RemoteDocsError in err's chain.
func As(err error) (*RemoteDocsError, bool) {
	var rde *RemoteDocsError
	if stdErrors.As(err, &rde) {
		return rde, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if rde, ok := As(err); ok {
		return rde.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if rde, ok := As(err); ok {
		return rde.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a RemoteDocsError
func GetCategory(err error) ErrorCategory {
	if rde, ok := As(err); ok {
		return rde.Category
	}
	return CategoryInternal
}
