package application

import (
	"context"

	repo "github.com/memoria-app/memoria/internal/domain/repository"
)

// Summary is the full analytics payload for one owner, computed fresh on
// every request.
type Summary struct {
	TotalMoments     int64             `json:"total_moments"`
	TotalMemories    int64             `json:"total_memories"`
	TotalViews       int64             `json:"total_views"`
	MoodDistribution []repo.MoodCount  `json:"mood_distribution"`
	TagCloud         []repo.TagCount   `json:"tag_cloud"`
	Timeline         []repo.DayCount   `json:"activity_timeline"`
}

type AnalyticsService struct {
	Repo           repo.AnalyticsRepository
	TagCloudLimit  int
	TimelineWindow int
}

func NewAnalyticsService(r repo.AnalyticsRepository, tagLimit, windowDays int) *AnalyticsService {
	if tagLimit <= 0 {
		tagLimit = 30
	}
	if windowDays <= 0 {
		windowDays = 30
	}
	return &AnalyticsService{Repo: r, TagCloudLimit: tagLimit, TimelineWindow: windowDays}
}

// Summarize composes all aggregates. An owner with no data gets zero
// totals and empty slices, never nulls.
func (s *AnalyticsService) Summarize(ctx context.Context, ownerID string) (*Summary, error) {
	moments, memories, err := s.Repo.TotalCounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views, err := s.Repo.TotalViews(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	moods, err := s.Repo.MoodDistribution(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	tags, err := s.Repo.TagCloud(ctx, ownerID, s.TagCloudLimit)
	if err != nil {
		return nil, err
	}
	days, err := s.Repo.ActivityTimeline(ctx, ownerID, s.TimelineWindow)
	if err != nil {
		return nil, err
	}

	if moods == nil {
		moods = []repo.MoodCount{}
	}
	if tags == nil {
		tags = []repo.TagCount{}
	}
	if days == nil {
		days = []repo.DayCount{}
	}

	return &Summary{
		TotalMoments:     moments,
		TotalMemories:    memories,
		TotalViews:       views,
		MoodDistribution: moods,
		TagCloud:         tags,
		Timeline:         days,
	}, nil
}
