package models

import "errors"

// ErrorKind classifies a failure for HTTP mapping and user messaging.
type ErrorKind string

const (
	KindConfiguration    ErrorKind = "CONFIG"
	KindValidation       ErrorKind = "VALIDATION"
	KindInsufficientData ErrorKind = "INSUFFICIENT_DATA"
	KindStore            ErrorKind = "STORE"
	KindRetrieval        ErrorKind = "RETRIEVAL"
	KindGeneration       ErrorKind = "GENERATION"
)

// AppError is the boundary error type: orchestrators wrap every internal
// fault into one of these before it crosses to a caller. Message is safe to
// show to users; Err carries the underlying cause for operator logs only.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err if it is (or wraps) an AppError.
func KindOf(err error) (ErrorKind, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}

// UserMessage returns the user-safe message of err, or fallback when err is
// not an AppError.
func UserMessage(err error, fallback string) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return fallback
}

func ConfigurationError(msg string) *AppError {
	return &AppError{Kind: KindConfiguration, Message: msg}
}

func ValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func InsufficientDataError(msg string) *AppError {
	return &AppError{Kind: KindInsufficientData, Message: msg}
}

func StoreError(msg string, err error) *AppError {
	return &AppError{Kind: KindStore, Message: msg, Err: err}
}

func RetrievalError(msg string, err error) *AppError {
	return &AppError{Kind: KindRetrieval, Message: msg, Err: err}
}

func GenerationError(msg string, err error) *AppError {
	return &AppError{Kind: KindGeneration, Message: msg, Err: err}
}
