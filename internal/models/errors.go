package models

import "fmt"

// ErrorKind classifies analysis failures for the presentation boundary.
type ErrorKind string

const (
	// ErrValidation covers rejected input: missing file, blank text,
	// oversized upload, malformed URL. Never retried, no partial result.
	ErrValidation ErrorKind = "validation"
	// ErrExtraction covers URL fetch/parse and media extraction failures.
	ErrExtraction ErrorKind = "extraction"
	// ErrService covers an external service call that failed where the
	// failure is load-bearing for the analysis.
	ErrService ErrorKind = "service"
	// ErrParse covers a service response that could not be decoded.
	ErrParse ErrorKind = "parse"
)

// AnalysisError is the single error type crossing the core boundary. Message
// is the complete user-facing text; internal diagnostics stay in the wrapped
// cause and never reach the presentation layer.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AnalysisError) Unwrap() error { return e.Cause }

// NewValidationError builds a user-facing validation rejection.
func NewValidationError(message string) *AnalysisError {
	return &AnalysisError{Kind: ErrValidation, Message: message}
}

// NewExtractionError builds an extraction failure that aborts the analysis.
func NewExtractionError(message string, cause error) *AnalysisError {
	return &AnalysisError{Kind: ErrExtraction, Message: message, Cause: cause}
}

// NewServiceError builds a load-bearing service failure.
func NewServiceError(message string, cause error) *AnalysisError {
	return &AnalysisError{Kind: ErrService, Message: message, Cause: cause}
}
