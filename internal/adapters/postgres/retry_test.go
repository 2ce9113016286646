package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transientErr struct{}

func (transientErr) Error() string      { return "conn closed before send" }
func (transientErr) SafeToRetry() bool { return true }

func TestWithRetryRecoversTransientErrors(t *testing.T) {
	calls := 0
	got, err := withRetry(context.Background(), 3, "test", func() (int, error) {
		calls++
		if calls < 3 {
			return 0, transientErr{}
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestWithRetryGivesUpOnPermanentErrors(t *testing.T) {
	boom := errors.New("syntax error at or near")
	calls := 0
	_, err := withRetry(context.Background(), 3, "test", func() (int, error) {
		calls++
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithRetryDisabled(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), 0, "test", func() (string, error) {
		calls++
		return "", transientErr{}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryable(t *testing.T) {
	ctx := context.Background()
	assert.True(t, retryable(ctx, transientErr{}))
	assert.False(t, retryable(ctx, nil))
	assert.False(t, retryable(ctx, context.Canceled))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.False(t, retryable(cancelled, transientErr{}))
}
