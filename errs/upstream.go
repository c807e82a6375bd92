package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party Service Errors
var (
	ErrUpstream           = errors.New("upstream service failed")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrCircuitBreakerOpen = errors.New("circuit breaker open")
	ErrConfigMissing      = errors.New("configuration missing")
)

// NewUpstreamError surfaces the upstream service's own message to the client.
func NewUpstreamError(service string, cause error) *ApiErr {
	message := "Upstream request failed"
	if cause != nil && cause.Error() != "" {
		message = cause.Error()
	}
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New(message),
		kind:       ErrUpstream,
		Details:    fmt.Sprintf("%s request failed", service),
		Cause:      cause,
	}
}

func NewRateLimitError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        errors.New("Too many requests"),
		kind:       ErrRateLimitExceeded,
		Field:      "rate_limit",
	}
}

func NewConfigMissingError(key string) error {
	return fmt.Errorf("%w: %s", ErrConfigMissing, key)
}

func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}
