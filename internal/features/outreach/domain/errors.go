package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind names a failure in the generation pipeline.
type ErrorKind string

const (
	KindInvalidURL         ErrorKind = "invalid_url"
	KindMissingDescription ErrorKind = "missing_description"
	KindDescriptionTooLong ErrorKind = "description_too_long"
	KindFetchFailed        ErrorKind = "fetch_failed"
	KindIncompleteData     ErrorKind = "incomplete_data"
	KindTemplateMissing    ErrorKind = "template_missing"
	KindRateLimited        ErrorKind = "rate_limited"
	KindRetryableService   ErrorKind = "retryable_service_error"
	KindRetriesExhausted   ErrorKind = "retries_exhausted"
	// KindEmptyResult is a parsed generation result without an email field.
	KindEmptyResult ErrorKind = "empty_result"
)

// Stage is the pipeline step a failure is reported under.
type Stage string

const (
	StageValidation Stage = "validation"
	StageFetch      Stage = "fetch"
	StageGeneration Stage = "generation"
	StageUnknown    Stage = "unknown"
)

// ErrPlanLimitation marks upstream errors caused by the scraping account's plan.
var ErrPlanLimitation = errors.New("scraping plan limitation")

// Error is a typed pipeline failure.
type Error struct {
	Kind    ErrorKind
	Message string
	// Details is an optional hint for the caller, e.g. "the profile may be private".
	Details string
	Cause   error
}

// NewError creates an Error of the given kind.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetails sets the caller hint and returns e.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// Stage returns the pipeline step this failure belongs to.
func (e *Error) Stage() Stage {
	switch e.Kind {
	case KindInvalidURL, KindMissingDescription, KindDescriptionTooLong, KindIncompleteData:
		return StageValidation
	case KindFetchFailed:
		return StageFetch
	case KindTemplateMissing, KindRateLimited, KindRetryableService, KindRetriesExhausted, KindEmptyResult:
		return StageGeneration
	default:
		return StageUnknown
	}
}

// HTTPStatus returns 400 for caller input and data problems, 500 otherwise.
func (e *Error) HTTPStatus() int {
	if e.Stage() == StageValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// IsKind reports whether err is or wraps an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
