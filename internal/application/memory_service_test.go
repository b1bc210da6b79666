package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	repo "github.com/memoria-app/memoria/internal/domain/repository"
	"github.com/memoria-app/memoria/internal/infrastructure/inmem"
)

type testEnv struct {
	store     *inmem.Store
	moments   *MomentService
	memories  *MemoryService
	analytics *AnalyticsService
}

func newTestEnv() *testEnv {
	store := inmem.NewStore()
	return &testEnv{
		store:     store,
		moments:   NewMomentService(store.Moments(), store.Memories(), nil, nil, nil, ""),
		memories:  NewMemoryService(store.Memories(), store.Moments(), nil, nil),
		analytics: NewAnalyticsService(store.Analytics(), 30, 30),
	}
}

func (e *testEnv) mustMoment(t *testing.T, owner, text string, tags ...string) string {
	t.Helper()
	m, err := e.moments.Create(context.Background(), owner, CreateMomentInput{Text: text, Tags: tags})
	require.NoError(t, err)
	return m.ID
}

func TestCreateWithMomentsSeedsMembers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "first")
	b := env.mustMoment(t, owner, "second")

	m, err := env.memories.CreateWithMoments(ctx, owner, "Trip", "desc", []string{a, b})
	require.NoError(t, err)
	require.Len(t, m.Members, 2)
	require.Equal(t, a, m.Members[0].MomentID)
	require.Equal(t, b, m.Members[1].MomentID)
	require.False(t, m.Members[0].AddedAt.IsZero())
}

func TestCreateWithMomentsRejectsBadReference(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "real")
	ghost := uuid.NewString()

	_, err := env.memories.CreateWithMoments(ctx, owner, "Trip", "", []string{a, ghost})
	require.ErrorIs(t, err, repo.ErrInvalidReference)

	// nothing was written
	list, err := env.memories.List(ctx, owner, repo.MemorySort{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCreateWithMomentsRejectsForeignMoment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := uuid.NewString()
	bob := uuid.NewString()

	theirs := env.mustMoment(t, bob, "not yours")

	_, err := env.memories.CreateWithMoments(ctx, alice, "Steal", "", []string{theirs})
	require.ErrorIs(t, err, repo.ErrInvalidReference)
}

func TestCreateRequiresTitle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.memories.Create(ctx, uuid.NewString(), "   ", "", nil)
	require.ErrorIs(t, err, repo.ErrValidation)

	_, err = env.memories.CreateWithMoments(ctx, uuid.NewString(), "", "", nil)
	require.ErrorIs(t, err, repo.ErrValidation)
}

func TestAddMomentAllowsDuplicates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "once")
	mem, err := env.memories.CreateWithMoments(ctx, owner, "Album", "", []string{a})
	require.NoError(t, err)

	mem, err = env.memories.AddMoment(ctx, owner, mem.ID, a)
	require.NoError(t, err)
	require.Len(t, mem.Members, 2, "append is unconditional; duplicates are kept")
}

func TestAddMomentDoesNotValidateReference(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	mem, err := env.memories.CreateWithMoments(ctx, owner, "Album", "", nil)
	require.NoError(t, err)

	ghost := uuid.NewString()
	mem, err = env.memories.AddMoment(ctx, owner, mem.ID, ghost)
	require.NoError(t, err)
	require.Len(t, mem.Members, 1)
	require.Equal(t, ghost, mem.Members[0].MomentID)
}

func TestRemoveMomentRemovesAllMatching(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "dup")
	b := env.mustMoment(t, owner, "keep")
	mem, err := env.memories.CreateWithMoments(ctx, owner, "Album", "", []string{a, b})
	require.NoError(t, err)
	_, err = env.memories.AddMoment(ctx, owner, mem.ID, a)
	require.NoError(t, err)

	mem, err = env.memories.RemoveMoment(ctx, owner, mem.ID, a)
	require.NoError(t, err)
	require.Len(t, mem.Members, 1)
	require.Equal(t, b, mem.Members[0].MomentID)
}

func TestRemoveMomentNonMemberIsNoOp(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "member")
	mem, err := env.memories.CreateWithMoments(ctx, owner, "Album", "", []string{a})
	require.NoError(t, err)

	mem, err = env.memories.RemoveMoment(ctx, owner, mem.ID, uuid.NewString())
	require.NoError(t, err)
	require.Len(t, mem.Members, 1)
}

func TestDeleteMemoryKeepsMoments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "survivor")
	mem, err := env.memories.CreateWithMoments(ctx, owner, "Doomed", "", []string{a})
	require.NoError(t, err)

	require.NoError(t, env.memories.Delete(ctx, owner, mem.ID))

	_, _, err = env.memories.Get(ctx, owner, mem.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	m, err := env.moments.Get(ctx, owner, a)
	require.NoError(t, err)
	require.Equal(t, "survivor", m.Text)
}

func TestCrossOwnerMemoryIsNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := uuid.NewString()
	bob := uuid.NewString()

	mem, err := env.memories.CreateWithMoments(ctx, alice, "Private", "", nil)
	require.NoError(t, err)

	_, _, err = env.memories.Get(ctx, bob, mem.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	_, err = env.memories.AddMoment(ctx, bob, mem.ID, uuid.NewString())
	require.ErrorIs(t, err, repo.ErrNotFound)

	err = env.memories.Delete(ctx, bob, mem.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGetResolvesMemberMoments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "alpha")
	b := env.mustMoment(t, owner, "beta")
	mem, err := env.memories.CreateWithMoments(ctx, owner, "Pair", "", []string{a, b})
	require.NoError(t, err)

	got, moments, err := env.memories.Get(ctx, owner, mem.ID)
	require.NoError(t, err)
	require.Equal(t, mem.ID, got.ID)
	require.Len(t, moments, 2)
}

func TestSweepOrphansPrunesDanglingRefs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "stays")
	mem, err := env.memories.CreateWithMoments(ctx, owner, "Mixed", "", []string{a})
	require.NoError(t, err)

	// dangling refs enter through the unvalidated add path
	ghost := uuid.NewString()
	_, err = env.memories.AddMoment(ctx, owner, mem.ID, ghost)
	require.NoError(t, err)
	_, err = env.memories.AddMoment(ctx, owner, mem.ID, ghost)
	require.NoError(t, err)

	removed, err := env.memories.SweepOrphans(ctx, owner)
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)

	got, _, err := env.memories.Get(ctx, owner, mem.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	require.Equal(t, a, got.Members[0].MomentID)
}

func TestUpdateMemoryMergePatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	mem, err := env.memories.CreateWithMoments(ctx, owner, "Old title", "old desc", nil)
	require.NoError(t, err)

	newTitle := "New title"
	got, err := env.memories.Update(ctx, owner, mem.ID, repo.MemoryPatch{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, "New title", got.Title)
	require.Equal(t, "old desc", got.Description, "untouched field survives")

	_, err = env.memories.Update(ctx, owner, mem.ID, repo.MemoryPatch{})
	require.ErrorIs(t, err, repo.ErrValidation)

	empty := "  "
	_, err = env.memories.Update(ctx, owner, mem.ID, repo.MemoryPatch{Title: &empty})
	require.ErrorIs(t, err, repo.ErrValidation)
}

// TestJournalLifecycle walks the common flow end to end: journal some
// moments, group them, evolve the group, delete a moment and watch the
// fan-out keep the membership list consistent.
func TestJournalLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	a := env.mustMoment(t, owner, "beach day", "beach", "sun")
	b := env.mustMoment(t, owner, "hike", "outdoors")
	c := env.mustMoment(t, owner, "dinner", "food")

	mem, err := env.memories.CreateWithMoments(ctx, owner, "Summer", "", []string{a, b})
	require.NoError(t, err)
	require.Len(t, mem.Members, 2)

	mem, err = env.memories.AddMoment(ctx, owner, mem.ID, c)
	require.NoError(t, err)
	require.Len(t, mem.Members, 3)

	// duplicate add is kept
	mem, err = env.memories.AddMoment(ctx, owner, mem.ID, c)
	require.NoError(t, err)
	require.Len(t, mem.Members, 4)

	mem, err = env.memories.RemoveMoment(ctx, owner, mem.ID, c)
	require.NoError(t, err)
	require.Len(t, mem.Members, 2)

	// deleting a moment fans out
	require.NoError(t, env.moments.Delete(ctx, owner, a))
	got, moments, err := env.memories.Get(ctx, owner, mem.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	require.Equal(t, b, got.Members[0].MomentID)
	require.Len(t, moments, 1)

	sum, err := env.analytics.Summarize(ctx, owner)
	require.NoError(t, err)
	require.EqualValues(t, 2, sum.TotalMoments)
	require.EqualValues(t, 1, sum.TotalMemories)
}
