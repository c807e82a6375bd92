package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// BreakerStore stops calling a failing object store for a while instead of letting every
// request wait on it.
type BreakerStore struct {
	next ObjectStore
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerStore(name string, next ObjectStore) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        "image-store-" + name,
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		// Client-side mistakes say nothing about the store's health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrAssetNotFound) ||
				errors.Is(err, errs.ErrConfigMissing) ||
				errors.Is(err, context.Canceled)
		},
	}
	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	res, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", errs.ErrCircuitBreakerOpen, err)
	}
	return res, err
}

func (b *BreakerStore) Upload(ctx context.Context, body io.Reader, opts UploadOptions) (*Asset, error) {
	res, err := b.execute(func() (any, error) {
		return b.next.Upload(ctx, body, opts)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Asset), nil
}

func (b *BreakerStore) Delete(ctx context.Context, publicID string) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.Delete(ctx, publicID)
	})
	return err
}

func (b *BreakerStore) Info(ctx context.Context, publicID string) (*Asset, error) {
	res, err := b.execute(func() (any, error) {
		return b.next.Info(ctx, publicID)
	})
	if err != nil {
		return nil, err
	}
	return res.(*Asset), nil
}

func (b *BreakerStore) List(ctx context.Context, folder string) ([]Asset, error) {
	res, err := b.execute(func() (any, error) {
		return b.next.List(ctx, folder)
	})
	if err != nil {
		return nil, err
	}
	return res.([]Asset), nil
}
