package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/memoria-app/memoria/internal/domain/entity"
)

// addMomentAt inserts a moment with a crafted timestamp, bypassing the
// repository so timeline bucketing can be tested across days.
func addMomentAt(s *Store, ownerID string, createdAt time.Time) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moments[id] = &entity.Moment{
		ID:        id,
		OwnerID:   ownerID,
		Text:      "x",
		Mood:      "neutral",
		Tags:      []string{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	s.momentOrder = append(s.momentOrder, id)
}

func TestActivityTimelineBucketsAndOrder(t *testing.T) {
	store := NewStore()
	owner := uuid.NewString()
	now := time.Now().UTC()

	// two on the same day three days ago, one yesterday
	addMomentAt(store, owner, now.AddDate(0, 0, -3))
	addMomentAt(store, owner, now.AddDate(0, 0, -3).Add(time.Hour))
	addMomentAt(store, owner, now.AddDate(0, 0, -1))

	days, err := store.Analytics().ActivityTimeline(context.Background(), owner, 30)
	require.NoError(t, err)
	require.Len(t, days, 2, "days without moments are omitted")
	require.Equal(t, now.AddDate(0, 0, -3).Format("2006-01-02"), days[0].Day)
	require.EqualValues(t, 2, days[0].Count)
	require.Equal(t, now.AddDate(0, 0, -1).Format("2006-01-02"), days[1].Day)
	require.EqualValues(t, 1, days[1].Count)
}

func TestActivityTimelineWindowExcludesOld(t *testing.T) {
	store := NewStore()
	owner := uuid.NewString()
	now := time.Now().UTC()

	addMomentAt(store, owner, now.AddDate(0, 0, -45))
	addMomentAt(store, owner, now.AddDate(0, 0, -5))

	days, err := store.Analytics().ActivityTimeline(context.Background(), owner, 30)
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, now.AddDate(0, 0, -5).Format("2006-01-02"), days[0].Day)
}

func TestTimelineUsesUTCDayBoundaries(t *testing.T) {
	store := NewStore()
	owner := uuid.NewString()

	// 23:30 UTC and 00:30 UTC the next day land in different buckets even
	// though they are an hour apart
	base := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -2).Add(23*time.Hour + 30*time.Minute)
	addMomentAt(store, owner, base)
	addMomentAt(store, owner, base.Add(time.Hour))

	days, err := store.Analytics().ActivityTimeline(context.Background(), owner, 30)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Equal(t, base.Format("2006-01-02"), days[0].Day)
	require.Equal(t, base.Add(time.Hour).Format("2006-01-02"), days[1].Day)
}
