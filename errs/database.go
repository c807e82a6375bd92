package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

var ErrUniqueConstraintViolation = errors.New("unique constraint violation")

// NewAlreadyExists reports a violated uniqueness rule with a client-facing message,
// e.g. "Project with this slug already exists".
func NewAlreadyExists(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        errors.New(message),
		kind:       ErrAlreadyExists,
	}
}

// NewDatabaseError classifies a store error raised while performing operation on entity.
// Store errors are classified by sentinel, never by message text.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	message := fmt.Sprintf("Failed to %s %s", operation, entity)

	switch {
	case cause == nil:
	case errors.Is(cause, ErrUniqueConstraintViolation):
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        fmt.Errorf("%s already exists", capitalize(entity)),
			kind:       ErrAlreadyExists,
			Details:    message,
			Cause:      cause,
		}
	case errors.Is(cause, ErrNotFound):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s not found", capitalize(entity)),
			kind:       ErrNotFound,
			Details:    message,
			Cause:      cause,
		}
	case errors.Is(cause, ErrDatabaseConnection):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        errors.New(message),
			kind:       ErrDatabaseConnection,
			Details:    "Unable to connect to database",
			Cause:      cause,
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New(message),
		kind:       ErrDatabaseQuery,
		Cause:      cause,
	}
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsDatabaseConnectionError(err error) bool {
	return errors.Is(err, ErrDatabaseConnection)
}

func IsUniqueConstraintViolationError(err error) bool {
	return errors.Is(err, ErrUniqueConstraintViolation)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
