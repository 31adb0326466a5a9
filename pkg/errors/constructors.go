// Package errors provides constructors for the error categories tableview
// actually raises. They combine creation with a Wrap helper for convenience.
package errors

import "fmt"

// Wrap creates a PreviewError that wraps an underlying cause.
func Wrap(cause error, code string, category Category, message string) *PreviewError {
	return New(code, category, message).WithCause(cause)
}

// Config creates a configuration error.
// The error code should be one of the ErrConfig* constants.
func Config(code, message string) *PreviewError {
	return New(code, CategoryConfig, message)
}

// Configf creates a configuration error with a formatted message.
func Configf(code, format string, args ...interface{}) *PreviewError {
	return Config(code, fmt.Sprintf(format, args...))
}

// ConfigWrap wraps an error as a configuration error.
func ConfigWrap(cause error, code, message string) *PreviewError {
	return Wrap(cause, code, CategoryConfig, message)
}

// Locale creates a language/localization error.
func Locale(code, message string) *PreviewError {
	return New(code, CategoryLocale, message)
}

// Localef creates a localization error with a formatted message.
func Localef(code, format string, args ...interface{}) *PreviewError {
	return Locale(code, fmt.Sprintf(format, args...))
}

// Document creates a document generation error.
// The error code should be one of the producer Err* constants.
func Document(code, message string) *PreviewError {
	return New(code, CategoryDocument, message)
}

// DocumentWrap wraps an error as a document generation error.
func DocumentWrap(cause error, code, message string) *PreviewError {
	return Wrap(cause, code, CategoryDocument, message)
}

// Preview creates a preview (load/render) error.
func Preview(code, message string) *PreviewError {
	return New(code, CategoryPreview, message)
}

// Previewf creates a preview error with a formatted message.
func Previewf(code, format string, args ...interface{}) *PreviewError {
	return Preview(code, fmt.Sprintf(format, args...))
}

// PreviewWrap wraps an error as a preview error.
func PreviewWrap(cause error, code, message string) *PreviewError {
	return Wrap(cause, code, CategoryPreview, message)
}

// Validation creates an input validation error.
func Validation(code, message string) *PreviewError {
	return New(code, CategoryValidation, message)
}

// Network creates a network error.
func Network(code, message string) *PreviewError {
	return New(code, CategoryNetwork, message)
}

// NetworkWrap wraps an error as a network error.
func NetworkWrap(cause error, code, message string) *PreviewError {
	return Wrap(cause, code, CategoryNetwork, message)
}
