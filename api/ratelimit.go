package api

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// newRateLimiter limits requests per client IP. rate uses the limiter format, e.g. "5-M".
// Counters live in redis when client is set so that every instance shares them.
func newRateLimiter(name, rate string, client *redis.Client) (func(http.Handler) http.Handler, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse %s rate limit %q: %w", name, rate, err)
	}

	var store limiter.Store
	if client != nil {
		store, err = redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix:   "portfolio:limiter:" + name,
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s rate limit store: %w", name, err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          name,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
	}

	responder := NewResponder(log.With().Str("handlerName", "rateLimiter").Str("limiter", name).Logger())
	middleware := stdlib.NewMiddleware(
		limiter.New(store, parsed, limiter.WithTrustForwardHeader(true)),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			responder.WriteError(w, errs.NewRateLimitError())
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to check rate limit", err))
		}),
	)
	return middleware.Handler, nil
}
