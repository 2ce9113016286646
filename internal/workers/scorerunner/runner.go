package scorerunner

import (
	"context"
	"time"

	"botwatch/internal/logging"
	"botwatch/internal/ports"
)

// Trigger is the run label recorded for timer-started batches.
const Trigger = "timer"

// Run calls scorer on every tick until ctx is done. Each tick requests the
// default batch size. Failures are logged and the next tick proceeds; ticks
// that arrive while a batch is still running are dropped by the ticker.
func Run(ctx context.Context, scorer ports.BotScorer, interval time.Duration, logger logging.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			RunOnce(ctx, scorer, logger)
		}
	}
}

// RunOnce starts a single timer batch and logs its outcome.
func RunOnce(ctx context.Context, scorer ports.BotScorer, logger logging.Logger) {
	res, err := scorer.RunBatch(ctx, ports.BatchRequest{Trigger: Trigger})
	if err != nil {
		logger.WithError(err).Error("scheduled bot score batch failed")
		return
	}
	logger.WithFields(logging.Fields{
		"run_id":    res.RunID,
		"processed": res.Processed,
		"failed":    res.Failed,
	}).Info("scheduled bot score batch done")
}
