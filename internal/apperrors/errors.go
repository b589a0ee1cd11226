package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure into one of the caller-visible categories.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindExtraction Kind = "EXTRACTION_ERROR"
	KindGeneration Kind = "GENERATION_ERROR"
	KindParse      Kind = "PARSE_ERROR"
	KindInternal   Kind = "INTERNAL_ERROR"
)

// AppError is a classified application error. Every pipeline stage converts
// low-level errors into an AppError at its own boundary so that no raw
// third-party error crosses a component boundary.
type AppError struct {
	Kind    Kind
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

func newAppError(kind Kind, code, message string, cause error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(KindValidation, code, message, cause)
}

func NewExtractionError(code, message string, cause error) *AppError {
	return newAppError(KindExtraction, code, message, cause)
}

func NewGenerationError(code, message string, cause error) *AppError {
	return newAppError(KindGeneration, code, message, cause)
}

func NewParseError(code, message string, cause error) *AppError {
	return newAppError(KindParse, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(KindInternal, code, message, cause)
}

// KindOf returns the classification of err, or KindInternal when err carries
// no AppError in its chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf returns the error code of err, or an empty string for unclassified
// errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Retryable reports whether a retry of the whole orchestration may succeed.
// Generation failures are transient and model output is non-deterministic, so
// both generation and parse failures are worth retrying; validation and
// extraction failures require corrected input.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindGeneration, KindParse:
		return true
	default:
		return false
	}
}

// Common error codes.
const (
	CodeEmptyJobDescription = "EMPTY_JOB_DESCRIPTION"
	CodeResumeNotFound      = "RESUME_NOT_FOUND"
	CodeUnreadableDocument  = "UNREADABLE_DOCUMENT"
	CodeNoTextContent       = "NO_TEXT_CONTENT"
	CodeGenerationFailed    = "GENERATION_FAILED"
	CodeGenerationTimeout   = "GENERATION_TIMEOUT"
	CodeEmptyCompletion     = "EMPTY_COMPLETION"
	CodeMalformedJSON       = "MALFORMED_JSON"
	CodeSchemaViolation     = "SCHEMA_VIOLATION"
	CodePersistenceFailed   = "PERSISTENCE_FAILED"
)
