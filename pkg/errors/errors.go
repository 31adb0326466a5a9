// Package errors provides structured error types for tableview.
// Errors carry a code, context, and actionable suggestions.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Category classifies errors for consistent handling and display.
type Category string

const (
	CategoryConfig     Category = "config"     // Configuration loading/parsing errors
	CategoryLocale     Category = "locale"     // Language tag / bundle errors
	CategoryDocument   Category = "document"   // Document generation errors
	CategoryPreview    Category = "preview"    // Document loading / rendering errors
	CategoryValidation Category = "validation" // Input validation errors
	CategoryNetwork    Category = "network"    // Network/connectivity errors
	CategoryIO         Category = "io"         // File/IO errors
	CategoryInternal   Category = "internal"   // Internal/unexpected errors
)

// PreviewError is a structured error with context and suggestions.
// It implements the error interface and supports error wrapping.
type PreviewError struct {
	// Code is a unique identifier for this error type (e.g., "DOCUMENT_LOAD_FAILED")
	Code string

	// Category classifies this error for consistent handling
	Category Category

	// Message is the primary error message describing what went wrong
	Message string

	// Context provides additional key-value details about the error
	Context map[string]string

	// Cause is the underlying error that triggered this error (for wrapping)
	Cause error

	// Suggestions are actionable remediation steps for the user
	Suggestions []string
}

// Error implements the error interface.
func (e *PreviewError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain inspection.
// This enables errors.Is() and errors.As() to work with PreviewError.
func (e *PreviewError) Unwrap() error {
	return e.Cause
}

// Is reports whether e matches target for errors.Is() checks.
// Two PreviewErrors match if they have the same Code.
func (e *PreviewError) Is(target error) bool {
	if t, ok := target.(*PreviewError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new PreviewError with the given code, category, and message.
func New(code string, category Category, message string) *PreviewError {
	return &PreviewError{
		Code:     code,
		Category: category,
		Message:  message,
		Context:  make(map[string]string),
	}
}

// WithContext adds a context key-value pair and returns the error for chaining.
func (e *PreviewError) WithContext(key, value string) *PreviewError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithCause wraps an underlying error and returns the error for chaining.
func (e *PreviewError) WithCause(cause error) *PreviewError {
	e.Cause = cause
	return e
}

// WithSuggestion adds a remediation suggestion and returns the error for chaining.
func (e *PreviewError) WithSuggestion(suggestion string) *PreviewError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple remediation suggestions.
func (e *PreviewError) WithSuggestions(suggestions ...string) *PreviewError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// HasContext returns true if the error has context information.
func (e *PreviewError) HasContext() bool {
	return len(e.Context) > 0
}

// Format returns a multi-line representation suitable for terminal display:
// the message followed by context lines and suggestions.
func (e *PreviewError) Format() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, "\n  cause: %v", e.Cause)
	}
	for k, v := range e.Context {
		fmt.Fprintf(&b, "\n  %s: %s", k, v)
	}
	for _, s := range e.Suggestions {
		fmt.Fprintf(&b, "\n  • %s", s)
	}
	return b.String()
}

// CodeOf returns the code of err if it is (or wraps) a PreviewError,
// and "" otherwise.
func CodeOf(err error) string {
	var pe *PreviewError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Is and As re-export the standard library helpers so callers don't need
// a second errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As delegates to the standard library errors.As.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }
