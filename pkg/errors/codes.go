// Package errors provides error code constants for tableview.
// Error codes are organized by category for consistent handling and lookup.
package errors

// -----------------------------------------------------------------------------
// Configuration Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = "CONFIG_NOT_FOUND"

	// ErrConfigParseFailed indicates the configuration file could not be parsed.
	// Usually a YAML syntax error or invalid structure.
	ErrConfigParseFailed = "CONFIG_PARSE_FAILED"

	// ErrConfigInvalid indicates configuration values are invalid.
	ErrConfigInvalid = "CONFIG_INVALID"

	// ErrConfigWriteFailed indicates the config file could not be written.
	ErrConfigWriteFailed = "CONFIG_WRITE_FAILED"
)

// -----------------------------------------------------------------------------
// Document Producer Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrLanguageUnsupported indicates the requested language tag is not one
	// of the supported set.
	ErrLanguageUnsupported = "LANGUAGE_UNSUPPORTED"

	// ErrFontUnavailable indicates the configured CJK font could not be read
	// or applied. This is always recovered locally: generation proceeds with
	// the built-in fallback font and a logged warning.
	ErrFontUnavailable = "FONT_UNAVAILABLE"

	// ErrDocumentBuildFailed indicates the table layout library reported an
	// error while writing the document.
	ErrDocumentBuildFailed = "DOCUMENT_BUILD_FAILED"
)

// -----------------------------------------------------------------------------
// Preview Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrDocumentLoadFailed indicates a generated document could not be read
	// back by the preview host (page counting or parsing failed).
	// Surfaced once, never retried.
	ErrDocumentLoadFailed = "DOCUMENT_LOAD_FAILED"

	// ErrDocumentNotFound indicates no document is currently loaded.
	ErrDocumentNotFound = "DOCUMENT_NOT_FOUND"

	// ErrPageOutOfRange indicates a page number outside [1, totalPages].
	ErrPageOutOfRange = "PAGE_OUT_OF_RANGE"

	// ErrPageRenderFailed indicates a single page could not be rasterized.
	// Logged and surfaced to the caller; no retry.
	ErrPageRenderFailed = "PAGE_RENDER_FAILED"
)

// -----------------------------------------------------------------------------
// Network Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrCMapFetchFailed indicates a character-map file could not be
	// downloaded. Non-fatal: rendering falls back to built-in CID mapping.
	ErrCMapFetchFailed = "CMAP_FETCH_FAILED"
)
