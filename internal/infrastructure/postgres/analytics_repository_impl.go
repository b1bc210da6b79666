package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memoria-app/memoria/internal/domain/repository"
)

// AnalyticsRepository delegates all derived statistics to the Postgres
// query planner; nothing is cached or maintained incrementally.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

func (r *AnalyticsRepository) TotalCounts(ctx context.Context, ownerID string) (int64, int64, error) {
	var moments, memories int64
	err := r.pool.QueryRow(ctx, `
		SELECT (SELECT count(*) FROM moments WHERE user_id = $1),
		       (SELECT count(*) FROM memories WHERE user_id = $1)
	`, ownerID).Scan(&moments, &memories)
	return moments, memories, err
}

func (r *AnalyticsRepository) TotalViews(ctx context.Context, ownerID string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT coalesce(sum(views), 0) FROM moments WHERE user_id = $1
	`, ownerID).Scan(&total)
	return total, err
}

func (r *AnalyticsRepository) MoodDistribution(ctx context.Context, ownerID string) ([]repository.MoodCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT mood, count(*)
		FROM moments
		WHERE user_id = $1
		GROUP BY mood
		ORDER BY count(*) DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.MoodCount{}
	for rows.Next() {
		var mc repository.MoodCount
		if err := rows.Scan(&mc.Mood, &mc.Count); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// TagCloud counts tag occurrences: a moment repeating a tag counts it once
// per occurrence.
func (r *AnalyticsRepository) TagCloud(ctx context.Context, ownerID string, limit int) ([]repository.TagCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.tag, count(*)
		FROM moments, unnest(tags) AS t(tag)
		WHERE user_id = $1
		GROUP BY t.tag
		ORDER BY count(*) DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.TagCount{}
	for rows.Next() {
		var tc repository.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// ActivityTimeline buckets moments per UTC calendar day over the window
// [now-windowDays, now]. Days without moments are omitted.
func (r *AnalyticsRepository) ActivityTimeline(ctx context.Context, ownerID string, windowDays int) ([]repository.DayCount, error) {
	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, count(*)
		FROM moments
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`, ownerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.DayCount{}
	for rows.Next() {
		var dc repository.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

var _ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)
