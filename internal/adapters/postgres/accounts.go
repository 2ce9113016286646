package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"botwatch/internal/domain"
)

// ListForScoring returns up to limit accounts, least recently scored first so
// consecutive batches rotate through the whole table.
func (db *DB) ListForScoring(ctx context.Context, limit int) ([]domain.Account, error) {
	return withRetry(ctx, db.maxRetries, "accounts.list", func() ([]domain.Account, error) {
		rows, err := db.Pool.Query(ctx, `
			SELECT id, COALESCE(username, ''), COALESCE(array_remove(following, NULL), '{}'), followers_count
			FROM accounts
			ORDER BY last_computed_at ASC NULLS FIRST, id
			LIMIT $1
		`, limit)
		if err != nil {
			return nil, err
		}
		return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
			var a domain.Account
			err := row.Scan(&a.ID, &a.Username, &a.Following, &a.FollowersCount)
			return a, err
		})
	})
}

// SaveBotScore overwrites the score fields; behavior_features is replaced,
// never merged.
func (db *DB) SaveBotScore(ctx context.Context, accountID string, score float64, features domain.FeatureRecord, computedAt time.Time) error {
	raw, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	tag, err := db.Pool.Exec(ctx, `
		UPDATE accounts SET bot_score = $2, behavior_features = $3, last_computed_at = $4
		WHERE id = $1
	`, accountID, score, raw, computedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type scoreLookup struct {
	score domain.BotScore
	found bool
}

func (db *DB) GetBotScore(ctx context.Context, accountID string) (domain.BotScore, bool, error) {
	res, err := withRetry(ctx, db.maxRetries, "accounts.get", func() (scoreLookup, error) {
		var out scoreLookup
		var raw []byte
		err := db.Pool.QueryRow(ctx, `
			SELECT id, COALESCE(username, ''), bot_score, behavior_features, last_computed_at
			FROM accounts WHERE id = $1
		`, accountID).Scan(&out.score.AccountID, &out.score.Username, &out.score.BotScore, &raw, &out.score.LastComputedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out.found = true
		if len(raw) > 0 {
			var rec domain.FeatureRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return out, fmt.Errorf("decode features: %w", err)
			}
			out.score.BehaviorFeatures = &rec
		}
		return out, nil
	})
	return res.score, res.found, err
}
