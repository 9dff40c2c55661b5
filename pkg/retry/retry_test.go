package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "knewkarma/pkg/errors"
)

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.0,
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{0, 0, "No attempt"},
		{1, 100 * time.Millisecond, "First retry"},
		{2, 200 * time.Millisecond, "Second retry"},
		{3, 400 * time.Millisecond, "Third retry"},
		{4, 800 * time.Millisecond, "Fourth retry"},
		{5, 1 * time.Second, "Capped at max"},
		{9, 1 * time.Second, "Still capped"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			assert.Equal(t, test.expected, backoff.NextDelay(test.attempt))
		})
	}
}

func TestExponentialBackoffJitterStaysInBounds(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.3,
	}

	for i := 0; i < 50; i++ {
		delay := backoff.NextDelay(2)
		assert.GreaterOrEqual(t, delay, 140*time.Millisecond)
		assert.LessOrEqual(t, delay, 260*time.Millisecond)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	var retried []int

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errs.FromStatus(http.StatusTooManyRequests, "slow down")
		}
		return nil
	}, &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		OnRetry: func(attempt int, err error, delay time.Duration) {
			retried = append(retried, attempt)
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDoStopsAtMaxAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errs.FromStatus(http.StatusServiceUnavailable, "down")
	}, &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.True(t, errs.IsTransport(err))
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", errs.FromStatus(http.StatusNotFound, "gone")},
		{"malformed", errs.New(errs.ErrorTypeMalformed, "bad json")},
		{"plain", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := Do(context.Background(), func(ctx context.Context) error {
				attempts++
				return tt.err
			}, &Config{MaxAttempts: 5, Backoff: &ConstantBackoff{Delay: time.Millisecond}})

			assert.Same(t, tt.err, err)
			assert.Equal(t, 1, attempts)
		})
	}
}

func TestDoHonorsRetryAfterHint(t *testing.T) {
	var delays []time.Duration
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return &errs.Error{Type: errs.ErrorTypeRateLimit, Code: 429, RetryAfter: 20 * time.Millisecond}
		}
		return nil
	}, &Config{
		MaxAttempts: 2,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		MaxDelay:    time.Second,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			delays = append(delays, delay)
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, delays)
}

func TestDoCapsDelay(t *testing.T) {
	cfg := &Config{Backoff: &ConstantBackoff{Delay: time.Hour}, MaxDelay: time.Second}
	rateLimited := &errs.Error{Type: errs.ErrorTypeRateLimit, RetryAfter: 2 * time.Hour}

	assert.Equal(t, time.Second, cfg.delayFor(1, rateLimited))
}

func TestDoCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, func(ctx context.Context) error {
			attempts++
			return errs.FromStatus(http.StatusTooManyRequests, "")
		}, &Config{MaxAttempts: 10, Backoff: &ConstantBackoff{Delay: time.Hour}})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	result, err := DoWithResult(context.Background(), func(ctx context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", &errs.Error{Type: errs.ErrorTypeTransport}
		}
		return "ok", nil
	}, &Config{MaxAttempts: 2, Backoff: &ConstantBackoff{Delay: time.Millisecond}})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestWaitRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Wait(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Wait(ctx, 0), context.Canceled)
	assert.NoError(t, Wait(context.Background(), 0))
}
