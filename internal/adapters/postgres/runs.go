package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StartRun records a new run as running and returns its id.
func (db *DB) StartRun(ctx context.Context, trigger string, requestedLimit int) (string, error) {
	id := uuid.NewString()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO bot_score_runs (id, trigger, requested_limit, status, started_at)
		VALUES ($1, $2, $3, 'running', now())
	`, id, trigger, requestedLimit)
	return id, err
}

func (db *DB) CompleteRun(ctx context.Context, runID string, processed, failed int) error {
	return db.finishRun(ctx, runID, `
		UPDATE bot_score_runs SET status='completed', processed=$2, failed=$3, finished_at=now()
		WHERE id=$1 AND status='running'
	`, runID, processed, failed)
}

func (db *DB) FailRun(ctx context.Context, runID string, reason string) error {
	return db.finishRun(ctx, runID, `
		UPDATE bot_score_runs SET status='failed', error=$2, finished_at=now()
		WHERE id=$1 AND status='running'
	`, runID, reason)
}

func (db *DB) finishRun(ctx context.Context, runID string, stmt string, args ...any) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var status string
	if err = tx.QueryRow(ctx, `SELECT status FROM bot_score_runs WHERE id=$1 FOR UPDATE`, runID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	_, err = tx.Exec(ctx, stmt, args...)
	return err
}
