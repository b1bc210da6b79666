package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/memoria-app/memoria/internal/infrastructure/inmem"
)

func TestSummarizeEmptyOwner(t *testing.T) {
	env := newTestEnv()

	sum, err := env.analytics.Summarize(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.EqualValues(t, 0, sum.TotalMoments)
	require.EqualValues(t, 0, sum.TotalMemories)
	require.EqualValues(t, 0, sum.TotalViews)
	require.NotNil(t, sum.MoodDistribution)
	require.Empty(t, sum.MoodDistribution)
	require.NotNil(t, sum.TagCloud)
	require.Empty(t, sum.TagCloud)
	require.NotNil(t, sum.Timeline)
	require.Empty(t, sum.Timeline)
}

func TestMoodDistributionCountDescending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	for i := 0; i < 3; i++ {
		env.mustMoment(t, owner, "h")
	}
	for i := 0; i < 2; i++ {
		_, err := env.moments.Create(ctx, owner, CreateMomentInput{Text: "s", Mood: "sad"})
		require.NoError(t, err)
	}

	sum, err := env.analytics.Summarize(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sum.MoodDistribution, 2)
	require.Equal(t, "neutral", sum.MoodDistribution[0].Mood)
	require.EqualValues(t, 3, sum.MoodDistribution[0].Count)
	require.Equal(t, "sad", sum.MoodDistribution[1].Mood)
	require.EqualValues(t, 2, sum.MoodDistribution[1].Count)
}

func TestTagCloudCountsOccurrences(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	// the same tag twice on one moment counts twice
	env.mustMoment(t, owner, "a", "sun", "sun", "beach")
	env.mustMoment(t, owner, "b", "sun")

	sum, err := env.analytics.Summarize(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sum.TagCloud, 2)
	require.Equal(t, "sun", sum.TagCloud[0].Tag)
	require.EqualValues(t, 3, sum.TagCloud[0].Count)
	require.Equal(t, "beach", sum.TagCloud[1].Tag)
	require.EqualValues(t, 1, sum.TagCloud[1].Count)
}

func TestTagCloudHonorsLimit(t *testing.T) {
	store := inmem.NewStore()
	moments := NewMomentService(store.Moments(), store.Memories(), nil, nil, nil, "")
	analytics := NewAnalyticsService(store.Analytics(), 2, 30)
	ctx := context.Background()
	owner := uuid.NewString()

	_, err := moments.Create(ctx, owner, CreateMomentInput{Text: "tagged", Tags: []string{"a", "b", "c", "d"}})
	require.NoError(t, err)

	sum, err := analytics.Summarize(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sum.TagCloud, 2)
}

func TestTotalViewsSumsAcrossMoments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "a")
	b := env.mustMoment(t, owner, "b")
	for i := 0; i < 3; i++ {
		_, err := env.moments.IncrementViews(ctx, owner, a)
		require.NoError(t, err)
	}
	_, err := env.moments.IncrementViews(ctx, owner, b)
	require.NoError(t, err)

	sum, err := env.analytics.Summarize(ctx, owner)
	require.NoError(t, err)
	require.EqualValues(t, 4, sum.TotalViews)
}

func TestTimelineBucketsToday(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	env.mustMoment(t, owner, "a")
	env.mustMoment(t, owner, "b")

	sum, err := env.analytics.Summarize(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sum.Timeline, 1)
	require.Equal(t, time.Now().UTC().Format("2006-01-02"), sum.Timeline[0].Day)
	require.EqualValues(t, 2, sum.Timeline[0].Count)
}

func TestAnalyticsScopedToOwner(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := uuid.NewString()
	bob := uuid.NewString()

	env.mustMoment(t, alice, "hers", "x")
	env.mustMoment(t, bob, "his", "y")

	sum, err := env.analytics.Summarize(ctx, alice)
	require.NoError(t, err)
	require.EqualValues(t, 1, sum.TotalMoments)
	require.Len(t, sum.TagCloud, 1)
	require.Equal(t, "x", sum.TagCloud[0].Tag)
}
