package quotes

import (
	"context"
	"errors"
	"github.com/sethvargo/go-retry"
	"go-currency-bot/domain"
	"net/url"
	"time"
)

// retryingService decorates a quotes.Service with bounded exponential retry.
// Only transport failures and temporary statuses are retried.
type retryingService struct {
	next    Service
	retries uint64
	backoff time.Duration
}

// NewRetryingService returns a Service retrying failed fetches up to retries times.
// Zero retries returns s unchanged.
func NewRetryingService(retries uint64, backoff time.Duration, s Service) Service {
	if retries == 0 {
		return s
	}
	return &retryingService{
		next:    s,
		retries: retries,
		backoff: backoff,
	}
}

func (s *retryingService) Latest(ctx context.Context) (domain.Rates, error) {
	var rates domain.Rates
	b := retry.WithMaxRetries(s.retries, retry.NewExponential(s.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		r, err := s.next.Latest(ctx)
		if err != nil {
			if retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		rates = r
		return nil
	})
	return rates, err
}

// retryable reports whether another attempt could change the outcome of err
func retryable(err error) bool {
	var status *StatusError
	if errors.As(err, &status) {
		return status.Temporary()
	}
	var transport *url.Error
	return errors.As(err, &transport)
}
