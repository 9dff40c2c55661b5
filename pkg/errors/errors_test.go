package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorType
	}{
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusForbidden, ErrorTypeTransport},
		{http.StatusBadGateway, ErrorTypeTransport},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := FromStatus(tt.status, "boom")
			assert.Equal(t, tt.expected, err.Type)
			assert.Equal(t, tt.status, err.Code)
		})
	}
}

func TestErrorsIs(t *testing.T) {
	err := fmt.Errorf("fetching: %w", FromStatus(http.StatusNotFound, "no such user"))

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsRateLimited(err))
	assert.False(t, IsMalformed(err))
	assert.Equal(t, ErrorTypeNotFound, TypeOf(err))
	assert.Equal(t, ErrorType(""), TypeOf(stderrors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrorTypeTransport, cause, "request failed")

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, IsTransport(err))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", FromStatus(http.StatusTooManyRequests, ""), true},
		{"network failure", &Error{Type: ErrorTypeTransport}, true},
		{"server error", FromStatus(http.StatusServiceUnavailable, ""), true},
		{"client error", FromStatus(http.StatusForbidden, ""), false},
		{"not found", FromStatus(http.StatusNotFound, ""), false},
		{"malformed", New(ErrorTypeMalformed, "bad json"), false},
		{"plain error", stderrors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWithOp(t *testing.T) {
	base := FromStatus(http.StatusNotFound, "missing")
	err := WithOp(base, "community.profile", "golang")

	var e *Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, "community.profile", e.Op)
	assert.Equal(t, "golang", e.Source)
	assert.Empty(t, base.Op, "original error must not be mutated")
	assert.Contains(t, err.Error(), "community.profile: not_found [golang] error (code 404): missing")

	plain := stderrors.New("plain")
	assert.Same(t, plain, WithOp(plain, "op", "src"))
}

func TestRetryAfterOf(t *testing.T) {
	err := &Error{Type: ErrorTypeRateLimit, RetryAfter: 3 * time.Second}
	assert.Equal(t, 3*time.Second, RetryAfterOf(fmt.Errorf("wrapped: %w", err)))
	assert.Zero(t, RetryAfterOf(stderrors.New("x")))
}
