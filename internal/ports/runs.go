package ports

import "context"

// RunRepository tracks the lifecycle of scoring runs.
type RunRepository interface {
	StartRun(ctx context.Context, trigger string, requestedLimit int) (runID string, err error)
	CompleteRun(ctx context.Context, runID string, processed, failed int) error
	FailRun(ctx context.Context, runID string, reason string) error
}
