package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/memoria-app/memoria/internal/domain/repository"
)

// AnalyticsRepo computes the same aggregates the Postgres implementation
// delegates to SQL. Tie-breaks keep first-seen order, which is stable for
// the insertion-ordered store.
type AnalyticsRepo struct {
	s *Store
}

func (r *AnalyticsRepo) TotalCounts(_ context.Context, ownerID string) (int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var moments, memories int64
	for _, m := range r.s.moments {
		if m.OwnerID == ownerID {
			moments++
		}
	}
	for _, m := range r.s.memories {
		if m.OwnerID == ownerID {
			memories++
		}
	}
	return moments, memories, nil
}

func (r *AnalyticsRepo) TotalViews(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var total int64
	for _, m := range r.s.moments {
		if m.OwnerID == ownerID {
			total += m.Views
		}
	}
	return total, nil
}

func (r *AnalyticsRepo) MoodDistribution(_ context.Context, ownerID string) ([]repository.MoodCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := map[string]int64{}
	order := []string{}
	for _, id := range r.s.momentOrder {
		m, ok := r.s.moments[id]
		if !ok || m.OwnerID != ownerID {
			continue
		}
		if _, seen := counts[m.Mood]; !seen {
			order = append(order, m.Mood)
		}
		counts[m.Mood]++
	}

	out := make([]repository.MoodCount, 0, len(order))
	for _, mood := range order {
		out = append(out, repository.MoodCount{Mood: mood, Count: counts[mood]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (r *AnalyticsRepo) TagCloud(_ context.Context, ownerID string, limit int) ([]repository.TagCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := map[string]int64{}
	order := []string{}
	for _, id := range r.s.momentOrder {
		m, ok := r.s.moments[id]
		if !ok || m.OwnerID != ownerID {
			continue
		}
		for _, tag := range m.Tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	out := make([]repository.TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, repository.TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnalyticsRepo) ActivityTimeline(_ context.Context, ownerID string, windowDays int) ([]repository.DayCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	counts := map[string]int64{}
	for _, m := range r.s.moments {
		if m.OwnerID != ownerID || m.CreatedAt.Before(since) {
			continue
		}
		day := m.CreatedAt.UTC().Format("2006-01-02")
		counts[day]++
	}

	out := make([]repository.DayCount, 0, len(counts))
	for day, count := range counts {
		out = append(out, repository.DayCount{Day: day, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)
