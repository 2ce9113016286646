package ports

import (
	"context"
	"time"

	"botwatch/internal/domain"
)

type BatchRequest struct {
	Limit   int
	Trigger string
}

type BatchResult struct {
	RunID     string
	Processed int
	Failed    int
	RanAt     time.Time
}

// BotScorer runs one scoring batch.
type BotScorer interface {
	RunBatch(ctx context.Context, req BatchRequest) (BatchResult, error)
}

// ScoreReader serves the latest persisted score of an account.
type ScoreReader interface {
	GetLatest(ctx context.Context, accountID string) (domain.BotScore, error)
}
