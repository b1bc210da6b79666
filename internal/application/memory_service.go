package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/memoria-app/memoria/internal/domain/entity"
	repo "github.com/memoria-app/memoria/internal/domain/repository"
)

// MemoryService is the only component that mutates a memory's membership
// list. Referential rules:
//   - seeded creation validates every referenced moment inside one
//     transaction and writes nothing on failure;
//   - the add path appends unconditionally (no duplicate check, no
//     re-validation of the moment) — kept deliberately, see DESIGN.md;
//   - removal pulls every matching entry and is a no-op for non-members;
//   - deleting a memory never touches its member moments.
type MemoryService struct {
	Memories repo.MemoryRepository
	Moments  repo.MomentRepository
	Blobs    BlobStorage
	Logger   *logrus.Logger
}

func NewMemoryService(memories repo.MemoryRepository, moments repo.MomentRepository, blobs BlobStorage, logger *logrus.Logger) *MemoryService {
	return &MemoryService{Memories: memories, Moments: moments, Blobs: blobs, Logger: logger}
}

func (s *MemoryService) Create(ctx context.Context, ownerID, title, description string, cover *MediaUpload) (*entity.Memory, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", repo.ErrValidation)
	}

	m := &entity.Memory{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
	}
	if cover != nil {
		if s.Blobs == nil {
			return nil, fmt.Errorf("%w: blob storage not configured", repo.ErrValidation)
		}
		ext := strings.ToLower(filepath.Ext(cover.Filename))
		objectPath := filepath.ToSlash(filepath.Join("covers", ownerID, uuid.NewString()+ext))
		url, err := s.Blobs.Upload(ctx, objectPath, cover.ContentType, cover.Reader)
		if err != nil {
			return nil, err
		}
		m.CoverImage = &entity.MediaItem{Kind: entity.MediaImage, URL: url, Filename: objectPath}
	}
	if err := s.Memories.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateWithMoments creates a memory seeded with an initial membership
// list. Either the memory with its full list is committed or nothing is;
// any reference to a missing or foreign moment aborts with
// ErrInvalidReference.
func (s *MemoryService) CreateWithMoments(ctx context.Context, ownerID, title, description string, momentIDs []string) (*entity.Memory, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", repo.ErrValidation)
	}
	for _, id := range momentIDs {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: invalid moment id %q", repo.ErrValidation, id)
		}
	}

	now := time.Now().UTC()
	members := make([]entity.MemberRef, 0, len(momentIDs))
	for _, id := range momentIDs {
		members = append(members, entity.MemberRef{MomentID: id, AddedAt: now})
	}

	m := &entity.Memory{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Members:     members,
	}
	if err := s.Memories.CreateWithMembers(ctx, m, momentIDs); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MemoryService) List(ctx context.Context, ownerID string, sort repo.MemorySort) ([]*entity.Memory, error) {
	return s.Memories.List(ctx, ownerID, sort)
}

// Get returns the memory together with its member moments resolved.
func (s *MemoryService) Get(ctx context.Context, ownerID, id string) (*entity.Memory, []*entity.Moment, error) {
	if err := validMemoryID(id); err != nil {
		return nil, nil, err
	}
	m, err := s.Memories.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, 0, len(m.Members))
	for _, ref := range m.Members {
		ids = append(ids, ref.MomentID)
	}
	moments, err := s.Moments.ListByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, nil, err
	}
	return m, moments, nil
}

func (s *MemoryService) Update(ctx context.Context, ownerID, id string, p repo.MemoryPatch) (*entity.Memory, error) {
	if err := validMemoryID(id); err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", repo.ErrValidation)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", repo.ErrValidation)
	}
	return s.Memories.Patch(ctx, ownerID, id, p)
}

// AddMoment appends a membership entry stamped with the current time. It
// neither checks for duplicates nor re-validates the referenced moment.
func (s *MemoryService) AddMoment(ctx context.Context, ownerID, memoryID, momentID string) (*entity.Memory, error) {
	if err := validMemoryID(memoryID); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(momentID); err != nil {
		return nil, fmt.Errorf("%w: invalid moment id", repo.ErrValidation)
	}
	return s.Memories.AppendMember(ctx, ownerID, memoryID, momentID, time.Now().UTC())
}

// RemoveMoment pulls every entry referencing momentID. Removing a moment
// that is not a member succeeds and changes nothing.
func (s *MemoryService) RemoveMoment(ctx context.Context, ownerID, memoryID, momentID string) (*entity.Memory, error) {
	if err := validMemoryID(memoryID); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(momentID); err != nil {
		return nil, fmt.Errorf("%w: invalid moment id", repo.ErrValidation)
	}
	return s.Memories.PullMember(ctx, ownerID, memoryID, momentID)
}

// Delete removes the memory record only; member moments are independent
// entities and survive.
func (s *MemoryService) Delete(ctx context.Context, ownerID, id string) error {
	if err := validMemoryID(id); err != nil {
		return err
	}
	return s.Memories.Delete(ctx, ownerID, id)
}

// SweepOrphans is the corrective pass for the documented inconsistency
// window of the deletion fan-out: it prunes membership entries whose
// moment no longer exists and returns how many were removed.
func (s *MemoryService) SweepOrphans(ctx context.Context, ownerID string) (int64, error) {
	removed, err := s.Memories.SweepOrphans(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if removed > 0 && s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"owner_id": ownerID, "removed": removed}).Info("orphaned membership entries pruned")
	}
	return removed, nil
}

func validMemoryID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid memory id", repo.ErrValidation)
	}
	return nil
}
