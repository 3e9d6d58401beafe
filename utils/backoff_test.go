package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"
)

func TestWithBackoff(t *testing.T) {
	t.Run("NotEnoughAttempts", func(t *testing.T) {
		retryable := newMockRetryableFn(3)
		err := WithBackoff(
			func() (err error) {
				_, err = retryable.Run()
				return err
			},
			2,
			time.Millisecond,
			log.NewLogger("test"),
		)
		require.Error(t, err)
		require.EqualValues(t, 2, retryable.calls)
	})
	t.Run("EnoughAttempts", func(t *testing.T) {
		retryable := newMockRetryableFn(2)
		var res bool
		err := WithBackoff(
			func() (err error) {
				res, err = retryable.Run()
				return err
			},
			3,
			time.Millisecond,
			log.NewLogger("test"),
		)
		require.NoError(t, err)
		require.True(t, res)
	})
}

// Two failures then success must wait ~base then ~2*base before succeeding.
func TestWithBackoffDelays(t *testing.T) {
	retryable := newMockRetryableFn(2)
	base := 100 * time.Millisecond

	start := time.Now()
	err := WithBackoff(
		func() (err error) {
			_, err = retryable.Run()
			return err
		},
		3,
		base,
		log.NewLogger("test"),
	)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.EqualValues(t, 3, retryable.calls)
	require.GreaterOrEqual(t, elapsed, 300*time.Millisecond)
	require.Less(t, elapsed, time.Second)
}

func TestWithBackoffLastErrorUnchanged(t *testing.T) {
	sentinel := errors.New("gateway unavailable")
	err := WithBackoff(
		func() error { return sentinel },
		3,
		time.Millisecond,
		log.NewLogger("test"),
	)
	require.ErrorIs(t, err, sentinel)
}

func TestWithRetriesTimeout(t *testing.T) {
	t.Run("SucceedsWithinBudget", func(t *testing.T) {
		retryable := newMockRetryableFn(1)
		err := WithRetriesTimeout(
			func() (err error) {
				_, err = retryable.Run()
				return err
			},
			5*time.Second,
			log.NewLogger("test"),
		)
		require.NoError(t, err)
		require.EqualValues(t, 2, retryable.calls)
	})
	t.Run("BudgetExhausted", func(t *testing.T) {
		sentinel := errors.New("receipt not found")
		start := time.Now()
		err := WithRetriesTimeout(
			func() error { return sentinel },
			100*time.Millisecond,
			log.NewLogger("test"),
		)
		require.ErrorIs(t, err, sentinel)
		require.Less(t, time.Since(start), 2*time.Second)
	})
}

func TestRetryValue(t *testing.T) {
	retryable := newMockRetryableFn(1)
	res, err := Retry(
		retryable.Run,
		3,
		time.Millisecond,
		log.NewLogger("test"),
	)
	require.NoError(t, err)
	require.True(t, res)
}

type mockRetryableFn struct {
	calls   uint64
	trigger uint64
}

func newMockRetryableFn(trigger uint64) *mockRetryableFn {
	return &mockRetryableFn{trigger: trigger}
}

func (m *mockRetryableFn) Run() (bool, error) {
	m.calls++
	if m.calls > m.trigger {
		return true, nil
	}
	return false, errors.New("error")
}
