package pagecache

import (
	"context"
	"errors"
	"time"

	"github.com/Sternrassler/post-pager/pkg/posts"
	"github.com/cenkalti/backoff/v4"
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// newBackOff builds the backoff policy for one fetch.
func (rc RetryConfig) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = rc.InitialBackoff
	b.MaxInterval = rc.MaxBackoff
	b.Multiplier = rc.BackoffMultiplier
	// ±20% jitter against synchronized retries
	b.RandomizationFactor = 0.2
	b.MaxElapsedTime = 0
	b.Reset()

	retries := rc.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// shouldRetry reports whether a failed fetch is worth repeating.
// Every upstream failure is retried, 4xx included; only errors that cannot
// change on repeat stop early.
func shouldRetry(err error) bool {
	switch {
	case errors.Is(err, posts.ErrInvalidPage), errors.Is(err, errFetchPanic):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}

// retryWithBackoff runs fn until it succeeds, fails permanently, or retries run out.
// It returns the number of attempts made and the last error.
func (c *Cache) retryWithBackoff(ctx context.Context, page int, fn func() error) (int, error) {
	attempts := 0

	operation := func() error {
		attempts++
		err := fn()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !shouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		pageFetchRetries.Inc()
		pageFetchBackoffSeconds.Observe(wait.Seconds())
		c.logger.Warn().
			Err(err).
			Int("page", page).
			Int("attempt", attempts).
			Dur("backoff", wait).
			Msg("Retrying page fetch after backoff")
	}

	err := backoff.RetryNotify(operation, c.config.Retry.newBackOff(ctx), notify)
	if err == nil && attempts > 1 {
		c.logger.Info().
			Int("page", page).
			Int("attempt", attempts).
			Msg("Page fetch succeeded after retry")
	}
	return attempts, err
}
