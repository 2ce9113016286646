package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/jackc/pgx/v5/pgconn"

	"botwatch/internal/metrics"
)

// withRetry runs a read with backoff while the failure looks transient.
// Writes are never routed through here.
func withRetry[T any](ctx context.Context, maxRetries int, op string, fn func() (T, error)) (T, error) {
	if maxRetries <= 0 {
		return fn()
	}
	policy := retrypolicy.NewBuilder[T]().
		HandleIf(func(_ T, err error) bool { return retryable(ctx, err) }).
		WithBackoff(50*time.Millisecond, 2*time.Second).
		WithJitterFactor(0.1).
		WithMaxRetries(maxRetries).
		OnRetry(func(failsafe.ExecutionEvent[T]) {
			metrics.StoreRetries.WithLabelValues(op).Inc()
		}).
		Build()
	return failsafe.With(policy).WithContext(ctx).Get(fn)
}

func retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}
