package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"botwatch/internal/domain"
)

// Comments that are not a JSON array read as empty; elements themselves
// decode leniently (domain.Comment.UnmarshalJSON).
const postColumns = `id, artist_id, date, post_type, original_post_timestamp, likes,
	CASE WHEN jsonb_typeof(comments) = 'array' THEN comments ELSE '[]'::jsonb END`

func scanPost(row pgx.CollectableRow) (domain.Post, error) {
	var p domain.Post
	var postType string
	err := row.Scan(&p.ID, &p.ArtistID, &p.Date, &postType, &p.OriginalPostTimestamp, &p.Likes, &p.Comments)
	p.PostType = domain.PostType(postType)
	return p, err
}

// ListByArtists loads every post owned by the given accounts.
func (db *DB) ListByArtists(ctx context.Context, artistIDs []string) ([]domain.Post, error) {
	if len(artistIDs) == 0 {
		return nil, nil
	}
	return withRetry(ctx, db.maxRetries, "posts.list_artists", func() ([]domain.Post, error) {
		rows, err := db.Pool.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE artist_id = ANY($1) ORDER BY date`, artistIDs)
		if err != nil {
			return nil, err
		}
		return pgx.CollectRows(rows, scanPost)
	})
}

// ListByArtist loads one account's full post history.
func (db *DB) ListByArtist(ctx context.Context, artistID string) ([]domain.Post, error) {
	return withRetry(ctx, db.maxRetries, "posts.list_artist", func() ([]domain.Post, error) {
		rows, err := db.Pool.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE artist_id = $1 ORDER BY date`, artistID)
		if err != nil {
			return nil, err
		}
		return pgx.CollectRows(rows, scanPost)
	})
}

// ListByUser loads one account's full activity history.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]domain.ActivityEvent, error) {
	return withRetry(ctx, db.maxRetries, "events.list_user", func() ([]domain.ActivityEvent, error) {
		rows, err := db.Pool.Query(ctx, `
			SELECT user_id, event_type, "timestamp", latency_ms
			FROM activity_events
			WHERE user_id = $1
			ORDER BY "timestamp"
		`, userID)
		if err != nil {
			return nil, err
		}
		return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ActivityEvent, error) {
			var ev domain.ActivityEvent
			var ts time.Time
			err := row.Scan(&ev.UserID, &ev.EventType, &ts, &ev.LatencyMs)
			ev.Timestamp = ts
			return ev, err
		})
	})
}
