package utils

import "fmt"

// InvalidInputError represents a request input that failed validation. It is
// always a local, immediate rejection and is never forwarded upstream.
type InvalidInputError struct {
	Message string
}

// Error returns the error message string.
func (e *InvalidInputError) Error() string {
	return e.Message
}

// NewInvalidInputError creates a new InvalidInputError with a specific message.
func NewInvalidInputError(message string) error {
	return &InvalidInputError{Message: message}
}

// NewInvalidInputErrorf creates a new InvalidInputError with a formatted message.
func NewInvalidInputErrorf(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a provider answered but knows nothing about the
// requested symbol.
type NotFoundError struct {
	Symbol string
}

// Error returns the error message string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("symbol %s not found", e.Symbol)
}

// NewNotFoundError creates a new NotFoundError for a symbol.
func NewNotFoundError(symbol string) error {
	return &NotFoundError{Symbol: symbol}
}

// UpstreamError represents a transport failure or non-2xx status from a
// third-party provider. It is absorbed by the caller, never surfaced as a
// crash.
type UpstreamError struct {
	Provider string
	Message  string
}

// Error returns the error message string.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// NewUpstreamError creates a new UpstreamError for a provider.
func NewUpstreamError(provider, message string) error {
	return &UpstreamError{Provider: provider, Message: message}
}

// NewUpstreamErrorf creates a new UpstreamError with a formatted message.
func NewUpstreamErrorf(provider, format string, args ...interface{}) error {
	return &UpstreamError{Provider: provider, Message: fmt.Sprintf(format, args...)}
}

// ShapeError represents a provider response that arrived but is missing
// required fields. Callers treat it identically to UpstreamError.
type ShapeError struct {
	Provider string
	Message  string
}

// Error returns the error message string.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: invalid response shape: %s", e.Provider, e.Message)
}

// NewShapeError creates a new ShapeError for a provider.
func NewShapeError(provider, message string) error {
	return &ShapeError{Provider: provider, Message: message}
}

// NewShapeErrorf creates a new ShapeError with a formatted message.
func NewShapeErrorf(provider, format string, args ...interface{}) error {
	return &ShapeError{Provider: provider, Message: fmt.Sprintf(format, args...)}
}

// AdvisoryParseError represents a text-generation reply that is not valid
// against the analysis schema. It is always resolved via the fixed fallback
// analysis, never returned to a client.
type AdvisoryParseError struct {
	Message string
}

// Error returns the error message string.
func (e *AdvisoryParseError) Error() string {
	return "advisory reply invalid: " + e.Message
}

// NewAdvisoryParseError creates a new AdvisoryParseError with a specific message.
func NewAdvisoryParseError(message string) error {
	return &AdvisoryParseError{Message: message}
}
