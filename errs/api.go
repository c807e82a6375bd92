package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
	ErrValidation   = errors.New("Validation error")
	ErrUnavailable  = errors.New("service unavailable")
	ErrCORSBlocked  = errors.New("request blocked by CORS policy")
)

// Request & Input-Validation Errors
var (
	ErrInvalidJSON          = errors.New("Invalid JSON")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
)

// Issue is one enumerated validation failure.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type ApiErr struct {
	StatusCode int
	err        error   // Public message
	kind       error   // Sentinel matched by errors.Is
	Details    string  // Additional details about the error
	Field      string  // Field that caused the error (for validation errors)
	Cause      error   // The underlying cause of the error
	Issues     []Issue // Enumerated validation failures
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        errors.New(message),
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Cause != nil {
		// Check if the cause is also an ApiErr for recursive error handling
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., kind: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	if e.kind != nil {
		return e.kind
	}
	return e.err
}

// Common error constructors with appropriate HTTP status codes
func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: errors.New(message), kind: ErrNotFound}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message)}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: errors.New(message), kind: ErrUnauthorized}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: errors.New(message)}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New(message),
		Cause:      cause,
	}
}

func NewServiceUnavailableError(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        errors.New(message),
		kind:       ErrUnavailable,
	}
}

// NewValidationError reports every failed rule at once.
func NewValidationError(issues []Issue) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Issues:     issues,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return NewValidationError([]Issue{{Path: fieldName, Message: reason}})
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrCORSBlocked,
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidJSON,
		Cause:      cause,
		Field:      "json",
	}
}

func NewUnsupportedMediaTypeError(contentType string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        errors.New("Only image files are allowed"),
		kind:       ErrUnsupportedMediaType,
		Details:    fmt.Sprintf("Unsupported media type: %s", contentType),
		Field:      "file",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("File size must be at most %dMB", maxSize/(1024*1024)),
		kind:       ErrMaxBodySizeExceeded,
		Field:      "file",
	}
}

func IsBadRequest(err error) bool {
	var apiErr *ApiErr
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
