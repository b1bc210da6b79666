package application

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	repo "github.com/memoria-app/memoria/internal/domain/repository"
	"github.com/memoria-app/memoria/internal/infrastructure/inmem"
)

// fakeBlobStore records uploads and deletes in memory.
type fakeBlobStore struct {
	uploads []string
	deletes []string
}

func (f *fakeBlobStore) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	f.uploads = append(f.uploads, objectPath)
	return "https://blobs.test/" + objectPath, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, objectPath string) error {
	f.deletes = append(f.deletes, objectPath)
	return nil
}

func TestCreateMomentDefaults(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	m, err := env.moments.Create(ctx, owner, CreateMomentInput{Text: "  hello  "})
	require.NoError(t, err)
	require.Equal(t, "hello", m.Text)
	require.Equal(t, "neutral", m.Mood)
	require.NotNil(t, m.Tags)
	require.Empty(t, m.Tags)
	require.EqualValues(t, 0, m.Views)
	require.NotEmpty(t, m.ID)
}

func TestCreateMomentRequiresText(t *testing.T) {
	env := newTestEnv()

	_, err := env.moments.Create(context.Background(), uuid.NewString(), CreateMomentInput{Text: "   "})
	require.ErrorIs(t, err, repo.ErrValidation)
}

func TestCreateMomentUploadsMedia(t *testing.T) {
	store := inmem.NewStore()
	blobs := &fakeBlobStore{}
	svc := NewMomentService(store.Moments(), store.Memories(), blobs, nil, nil, "")
	owner := uuid.NewString()

	m, err := svc.Create(context.Background(), owner, CreateMomentInput{
		Text: "with media",
		Media: []MediaUpload{
			{Reader: strings.NewReader("png bytes"), Filename: "a.png", ContentType: "image/png"},
			{Reader: strings.NewReader("mp4 bytes"), Filename: "b.mp4", ContentType: "video/mp4"},
		},
	})
	require.NoError(t, err)
	require.Len(t, m.Media, 2)
	require.Equal(t, "image", m.Media[0].Kind)
	require.Equal(t, "video", m.Media[1].Kind)
	require.Len(t, blobs.uploads, 2)
	require.Contains(t, m.Media[0].URL, "https://blobs.test/media/"+owner+"/")
}

func TestUpdateMomentMergePatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	m, err := env.moments.Create(ctx, owner, CreateMomentInput{Text: "original", Mood: "happy", Tags: []string{"a"}})
	require.NoError(t, err)

	mood := "calm"
	got, err := env.moments.Update(ctx, owner, m.ID, repo.MomentPatch{Mood: &mood})
	require.NoError(t, err)
	require.Equal(t, "calm", got.Mood)
	require.Equal(t, "original", got.Text, "untouched fields survive")
	require.Equal(t, []string{"a"}, got.Tags)

	_, err = env.moments.Update(ctx, owner, m.ID, repo.MomentPatch{})
	require.ErrorIs(t, err, repo.ErrValidation)
}

func TestIncrementViews(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	m, err := env.moments.Create(ctx, owner, CreateMomentInput{Text: "watched"})
	require.NoError(t, err)

	_, err = env.moments.IncrementViews(ctx, owner, m.ID)
	require.NoError(t, err)
	got, err := env.moments.IncrementViews(ctx, owner, m.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, got.Views)
}

func TestDeleteMomentFansOutAndCleansBlobs(t *testing.T) {
	store := inmem.NewStore()
	blobs := &fakeBlobStore{}
	moments := NewMomentService(store.Moments(), store.Memories(), blobs, nil, nil, "")
	memories := NewMemoryService(store.Memories(), store.Moments(), blobs, nil)
	ctx := context.Background()
	owner := uuid.NewString()

	m, err := moments.Create(ctx, owner, CreateMomentInput{
		Text:  "doomed",
		Media: []MediaUpload{{Reader: strings.NewReader("x"), Filename: "x.jpg", ContentType: "image/jpeg"}},
	})
	require.NoError(t, err)
	keep, err := moments.Create(ctx, owner, CreateMomentInput{Text: "keeper"})
	require.NoError(t, err)

	memA, err := memories.CreateWithMoments(ctx, owner, "A", "", []string{m.ID, keep.ID})
	require.NoError(t, err)
	memB, err := memories.CreateWithMoments(ctx, owner, "B", "", []string{m.ID})
	require.NoError(t, err)
	// duplicate membership in B
	_, err = memories.AddMoment(ctx, owner, memB.ID, m.ID)
	require.NoError(t, err)

	require.NoError(t, moments.Delete(ctx, owner, m.ID))

	_, err = moments.Get(ctx, owner, m.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	gotA, _, err := memories.Get(ctx, owner, memA.ID)
	require.NoError(t, err)
	require.Len(t, gotA.Members, 1)
	require.Equal(t, keep.ID, gotA.Members[0].MomentID)

	gotB, _, err := memories.Get(ctx, owner, memB.ID)
	require.NoError(t, err)
	require.Empty(t, gotB.Members, "every duplicate reference is pulled")

	require.Len(t, blobs.deletes, 1)
	require.Equal(t, blobs.uploads[0], blobs.deletes[0])
}

func TestCrossOwnerMomentIsNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := uuid.NewString()
	bob := uuid.NewString()

	m, err := env.moments.Create(ctx, alice, CreateMomentInput{Text: "private"})
	require.NoError(t, err)

	_, err = env.moments.Get(ctx, bob, m.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	_, err = env.moments.IncrementViews(ctx, bob, m.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	err = env.moments.Delete(ctx, bob, m.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestMomentIDValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	_, err := env.moments.Get(ctx, owner, "not-a-uuid")
	require.ErrorIs(t, err, repo.ErrValidation)

	err = env.moments.Delete(ctx, owner, "nope")
	require.ErrorIs(t, err, repo.ErrValidation)
}

func TestListMomentsFilterAndPaging(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.NewString()

	for i := 0; i < 3; i++ {
		_, err := env.moments.Create(ctx, owner, CreateMomentInput{Text: "happy one", Mood: "happy", Tags: []string{"t"}})
		require.NoError(t, err)
	}
	_, err := env.moments.Create(ctx, owner, CreateMomentInput{Text: "sad one", Mood: "sad"})
	require.NoError(t, err)

	items, total, err := env.moments.List(ctx, owner, repo.MomentFilter{Mood: "happy"})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 3)

	items, total, err = env.moments.List(ctx, owner, repo.MomentFilter{Mood: "happy", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 1)

	items, total, err = env.moments.List(ctx, owner, repo.MomentFilter{Tag: "t"})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 3)
}
