package repository

import "context"

// MoodCount is one bucket of the mood distribution.
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int64  `json:"count"`
}

// TagCount is one bucket of the tag cloud. Counts are per occurrence: a
// moment with the same tag twice contributes two.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// DayCount is one calendar-day bucket of the activity timeline. Day is a
// UTC date formatted as YYYY-MM-DD; days without moments are omitted.
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// AnalyticsRepository computes derived statistics over one owner's data.
// All operations are read-only and computed fresh per call.
type AnalyticsRepository interface {
	TotalCounts(ctx context.Context, ownerID string) (moments, memories int64, err error)
	TotalViews(ctx context.Context, ownerID string) (int64, error)
	MoodDistribution(ctx context.Context, ownerID string) ([]MoodCount, error)
	TagCloud(ctx context.Context, ownerID string, limit int) ([]TagCount, error)
	ActivityTimeline(ctx context.Context, ownerID string, windowDays int) ([]DayCount, error)
}
