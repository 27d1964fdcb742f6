package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so wrapped clones compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// WrapAs wraps err using the code, status and message of a predefined error.
func WrapAs(err error, kind *Error) *Error {
	return Wrap(err, kind.Code, kind.Status, kind.Message)
}

// Predefined errors for common scenarios.
var (
	ErrNotFound       = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation     = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal       = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrRateLimited    = New("RATE_LIMITED", http.StatusTooManyRequests, "too many complaints submitted, please wait a moment")
	ErrSubmissionBusy = New("SUBMISSION_IN_FLIGHT", http.StatusConflict, "a complaint is already being analyzed")

	// Classifier failures. They never reach end users directly.
	ErrEmptyResponse        = New("EMPTY_RESPONSE", http.StatusBadGateway, "received an empty response from the classifier")
	ErrMalformedResponse    = New("MALFORMED_RESPONSE", http.StatusBadGateway, "classifier response does not match the analysis schema")
	ErrClassificationFailed = New("CLASSIFICATION_FAILED", http.StatusBadGateway, "failed to get analysis from the classifier")

	// ErrAnalysisFailed is the single user-facing failure for any classifier error.
	ErrAnalysisFailed = New("ANALYSIS_FAILED", http.StatusBadGateway, "Failed to analyze complaint. Please try again.")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
