package utils

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/luxfi/log"
)

// WithBackoff runs operation up to maxAttempts times, waiting
// baseDelay * 2^attempt between attempts. It has no opinion on which errors
// are retryable; the caller decides whether to invoke it at all. On final
// failure the last error is returned unchanged.
func WithBackoff(
	operation backoff.Operation,
	maxAttempts uint64,
	baseDelay time.Duration,
	logger log.Logger,
) error {
	if maxAttempts == 0 {
		maxAttempts = 1
	}
	expBackOff := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(baseDelay),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(time.Hour),
		backoff.WithMaxElapsedTime(0),
	)
	notify := func(err error, wait time.Duration) {
		logger.Debug(
			"operation failed, retrying",
			log.Err(err),
			log.String("wait", wait.String()),
		)
	}
	return backoff.RetryNotify(operation, backoff.WithMaxRetries(expBackOff, maxAttempts-1), notify)
}

// WithRetriesTimeout retries the operation with the default exponential
// backoff until it succeeds or the timeout limit is reached.
func WithRetriesTimeout(
	operation backoff.Operation,
	timeout time.Duration,
	logger log.Logger,
) error {
	expBackOff := backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(timeout),
	)
	notify := func(err error, wait time.Duration) {
		logger.Debug(
			"operation failed, retrying",
			log.Err(err),
			log.String("wait", wait.String()),
		)
	}
	return backoff.RetryNotify(operation, expBackOff, notify)
}

// Retry is WithBackoff for operations that produce a value.
func Retry[T any](
	operation func() (T, error),
	maxAttempts uint64,
	baseDelay time.Duration,
	logger log.Logger,
) (T, error) {
	var result T
	err := WithBackoff(func() error {
		value, err := operation()
		if err != nil {
			return err
		}
		result = value
		return nil
	}, maxAttempts, baseDelay, logger)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
