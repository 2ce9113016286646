package profiles

import (
	"context"

	"botwatch/internal/domain"
	"botwatch/internal/ports"
)

type Service struct {
	scores ports.AccountRepository
}

func New(scores ports.AccountRepository) *Service { return &Service{scores: scores} }

// GetLatest returns the last persisted bot score of an account. Accounts that
// were never scored are reported as not found.
func (s *Service) GetLatest(ctx context.Context, accountID string) (domain.BotScore, error) {
	score, exists, err := s.scores.GetBotScore(ctx, accountID)
	if err != nil {
		return domain.BotScore{}, err
	}
	if !exists || score.LastComputedAt == nil {
		return domain.BotScore{}, ErrNotFound
	}
	return score, nil
}

var ErrNotFound = errString("not found")

type errString string

func (e errString) Error() string { return string(e) }

var _ ports.ScoreReader = (*Service)(nil)
