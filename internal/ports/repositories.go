package ports

import (
	"context"
	"time"

	"botwatch/internal/domain"
)

// AccountRepository loads scoring batches and writes bot scores back.
type AccountRepository interface {
	ListForScoring(ctx context.Context, limit int) ([]domain.Account, error)
	SaveBotScore(ctx context.Context, accountID string, score float64, features domain.FeatureRecord, computedAt time.Time) error
	GetBotScore(ctx context.Context, accountID string) (score domain.BotScore, found bool, err error)
}

// PostRepository is read-only.
type PostRepository interface {
	ListByArtists(ctx context.Context, artistIDs []string) ([]domain.Post, error)
	ListByArtist(ctx context.Context, artistID string) ([]domain.Post, error)
}

// EventRepository is read-only; events without a user id are never returned.
type EventRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.ActivityEvent, error)
}
