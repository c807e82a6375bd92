package errs

import (
	"errors"
	"net/http"
)

var (
	Unauthorized = NewUnauthorizedError("Unauthorized")
)

// Authentication & Authorization Errors
var (
	ErrMissingToken       = errors.New("missing access token")
	ErrExpiredToken       = errors.New("expired access token")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func Malformed(payloadName string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, payloadName+" malformed")
}

func BadRequest(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, message)
}

func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        errors.New("Invalid email or password"),
		kind:       ErrInvalidCredentials,
		Field:      "credentials",
	}
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsExpiredTokenError(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsInvalidCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
